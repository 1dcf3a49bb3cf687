// Package catalog статический каталог решений и материалов с фильтрацией
// по категории и строке поиска.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

// CategoryAll значение категории, отключающее фильтр.
const CategoryAll = "all"

// Item карточка решения или материала.
type Item struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category" json:"category"`
	Tags        []string `yaml:"tags" json:"tags"`
}

// Catalog решения и материалы.
type Catalog struct {
	Solutions []Item `yaml:"solutions"`
	Resources []Item `yaml:"resources"`
}

// Query параметры фильтра. Пустые поля не фильтруют.
type Query struct {
	Category string
	Search   string
}

// Load разбирает встроенный каталог.
func Load() (*Catalog, error) {
	const op = "catalog.Load"

	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// Filter оставляет элементы нужной категории, в заголовке, описании или
// тегах которых встречается строка поиска (без учёта регистра).
// Порядок сохраняется, результат не nil.
func Filter(items []Item, q Query) []Item {
	category := strings.ToLower(strings.TrimSpace(q.Category))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if category != "" && category != CategoryAll && strings.ToLower(it.Category) != category {
			continue
		}
		if search != "" && !matches(it, search) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matches(it Item, search string) bool {
	if strings.Contains(strings.ToLower(it.Title), search) ||
		strings.Contains(strings.ToLower(it.Description), search) {
		return true
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}
