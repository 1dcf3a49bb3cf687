// Package catalogue отдаёт каталог решений и материалов с фильтром по
// категории (?category=) и строке поиска (?q=).
package catalogue

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lead-capture/internal/http/response"
	"github.com/magabrotheeeer/lead-capture/internal/lib/catalog"
)

// Response отфильтрованные элементы.
type Response struct {
	response.Response
	Items []catalog.Item `json:"items"`
	Total int            `json:"total"`
}

// Handler отдаёт одну коллекцию каталога.
type Handler struct {
	log   *slog.Logger
	items []catalog.Item
}

// Solutions godoc
// @Summary Решения
// @Tags Catalogue
// @Produce  json
// @Param category query string false "Категория или all"
// @Param q query string false "Строка поиска"
// @Success 200 {object} Response
// @Router /api/solutions [get]
func Solutions(log *slog.Logger, c *catalog.Catalog) *Handler {
	return &Handler{log: log, items: c.Solutions}
}

// Resources godoc
// @Summary Материалы: whitepapers, статьи, вебинары, кейсы
// @Tags Catalogue
// @Produce  json
// @Param category query string false "Категория или all"
// @Param q query string false "Строка поиска"
// @Success 200 {object} Response
// @Router /api/resources [get]
func Resources(log *slog.Logger, c *catalog.Catalog) *Handler {
	return &Handler{log: log, items: c.Resources}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := catalog.Query{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
	}
	items := catalog.Filter(h.items, query)
	render.JSON(w, r, Response{
		Response: response.OK(""),
		Items:    items,
		Total:    len(items),
	})
}
