package invoicing

import (
	"errors"
	"fmt"

	"github.com/jhoicas/Cartera-api/internal/domain"
)

var (
	ErrUnknownRoundingMode = errors.New("invoicing: modo de redondeo desconocido")
	ErrInvalidScale        = errors.New("invoicing: escala fuera de rango")
	ErrNilItem             = errors.New("invoicing: ítem nulo")

	// ErrInvalidItemRecord envuelve domain.ErrInvalidInput para que los handlers lo mapeen a 4xx.
	ErrInvalidItemRecord = fmt.Errorf("invoicing: registro de ítem inválido: %w", domain.ErrInvalidInput)
	ErrUnknownItemType   = fmt.Errorf("%w: tipo de ítem desconocido", ErrInvalidItemRecord)
	ErrMissingLinkedItem = fmt.Errorf("%w: el ajuste debe referenciar un ítem", ErrInvalidItemRecord)
)
