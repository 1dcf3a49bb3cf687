package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/lead-capture/internal/models"
)

var (
	// ErrStepIncomplete текущий шаг не заполнен.
	ErrStepIncomplete = errors.New("current step is incomplete")
	// ErrNotFinalStep отправка возможна только с последнего шага.
	ErrNotFinalStep = errors.New("form can only be submitted from the last step")
	// ErrLastStep дальше последнего шага идти некуда.
	ErrLastStep = errors.New("already on the last step")
	// ErrAlreadySubmitted форма уже отправлена.
	ErrAlreadySubmitted = errors.New("form already submitted")
)

// Submitter отправляет собранную заявку.
type Submitter interface {
	Submit(ctx context.Context, payload models.NewRequest) error
}

// Wizard состояние формы: поля, текущий шаг и признак отправки.
type Wizard struct {
	Form Form

	step      Step
	submitted bool
}

// New возвращает пустую форму на первом шаге.
func New() *Wizard {
	return &Wizard{step: StepContact}
}

// Step текущий шаг.
func (w *Wizard) Step() Step { return w.step }

// Submitted сообщает, что форма отправлена.
func (w *Wizard) Submitted() bool { return w.submitted }

// CanProceed заполнен ли текущий шаг.
func (w *Wizard) CanProceed() bool {
	return IsStepComplete(w.Form, w.step)
}

// Next переходит на следующий шаг, если текущий заполнен.
func (w *Wizard) Next() error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	if w.step >= StepPreferences {
		return ErrLastStep
	}
	if !w.CanProceed() {
		return ErrStepIncomplete
	}
	w.step++
	return nil
}

// Back возвращает на предыдущий шаг. Ранее введённые поля сохраняются.
func (w *Wizard) Back() {
	if w.submitted || w.step <= StepContact {
		return
	}
	w.step--
}

// Submit отправляет форму. При ошибке состояние не меняется и отправку
// можно повторить.
func (w *Wizard) Submit(ctx context.Context, s Submitter) error {
	const op = "wizard.Submit"

	if w.submitted {
		return ErrAlreadySubmitted
	}
	if w.step != StepPreferences {
		return ErrNotFinalStep
	}
	if !w.CanProceed() {
		return ErrStepIncomplete
	}
	if err := s.Submit(ctx, Payload(w.Form)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.submitted = true
	return nil
}
