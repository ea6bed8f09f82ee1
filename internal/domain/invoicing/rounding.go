package invoicing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMode regla de redondeo aplicada a todo resultado monetario.
type RoundingMode string

// Modos soportados (mismos nombres que la configuración INVOICING_ROUNDING_MODE).
const (
	RoundHalfUp   RoundingMode = "HALF_UP"   // .5 se aleja de cero
	RoundHalfEven RoundingMode = "HALF_EVEN" // .5 va al par más cercano (bancario)
	RoundHalfDown RoundingMode = "HALF_DOWN" // .5 se acerca a cero
	RoundUp       RoundingMode = "UP"        // siempre se aleja de cero
	RoundDown     RoundingMode = "DOWN"      // siempre trunca hacia cero
	RoundCeiling  RoundingMode = "CEILING"   // hacia +infinito
	RoundFloor    RoundingMode = "FLOOR"     // hacia -infinito
)

// MaxScale límite de decimales aceptado por la política.
const MaxScale = 18

// ParseRoundingMode interpreta el nombre del modo sin distinguir mayúsculas.
func ParseRoundingMode(s string) (RoundingMode, error) {
	m := RoundingMode(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case RoundHalfUp, RoundHalfEven, RoundHalfDown, RoundUp, RoundDown, RoundCeiling, RoundFloor:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRoundingMode, s)
}

// RoundingPolicy escala (número de decimales) y regla de redondeo de los montos.
// Es un valor inmutable; se inyecta en cada ItemList.
type RoundingPolicy struct {
	Scale int32
	Mode  RoundingMode
}

// DefaultRoundingPolicy dos decimales, HALF_UP.
var DefaultRoundingPolicy = RoundingPolicy{Scale: 2, Mode: RoundHalfUp}

// NewRoundingPolicy construye y valida la política a partir de la configuración.
func NewRoundingPolicy(scale int, mode string) (RoundingPolicy, error) {
	if scale < 0 || scale > MaxScale {
		return RoundingPolicy{}, fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	m, err := ParseRoundingMode(mode)
	if err != nil {
		return RoundingPolicy{}, err
	}
	return RoundingPolicy{Scale: int32(scale), Mode: m}, nil
}

// Validate comprueba que la escala esté en [0, MaxScale] y el modo sea conocido.
func (p RoundingPolicy) Validate() error {
	if p.Scale < 0 || p.Scale > MaxScale {
		return fmt.Errorf("%w: %d", ErrInvalidScale, p.Scale)
	}
	if _, err := ParseRoundingMode(string(p.Mode)); err != nil {
		return err
	}
	return nil
}

// Zero cero ya expresado en la escala de la política.
func (p RoundingPolicy) Zero() decimal.Decimal {
	return decimal.New(0, -p.Scale)
}

// Apply lleva d a la escala de la política usando su regla de redondeo.
// El resultado siempre queda con exponente -Scale.
func (p RoundingPolicy) Apply(d decimal.Decimal) decimal.Decimal {
	s := p.Scale
	switch p.Mode {
	case RoundHalfEven:
		return d.RoundBank(s)
	case RoundHalfDown:
		rem := d.Sub(d.Truncate(s)).Abs()
		if rem.GreaterThan(decimal.New(5, -(s + 1))) {
			return d.RoundUp(s).Round(s)
		}
		return d.RoundDown(s).Round(s)
	// RoundUp/RoundDown/RoundCeil/RoundFloor no reescalan valores con menos decimales;
	// Round(s) sobre un valor ya redondeado solo ajusta el exponente.
	case RoundUp:
		return d.RoundUp(s).Round(s)
	case RoundDown:
		return d.RoundDown(s).Round(s)
	case RoundCeiling:
		return d.RoundCeil(s).Round(s)
	case RoundFloor:
		return d.RoundFloor(s).Round(s)
	default:
		return d.Round(s)
	}
}

// Format representación con exactamente Scale decimales (ej: "150.00").
func (p RoundingPolicy) Format(d decimal.Decimal) string {
	return p.Apply(d).StringFixed(p.Scale)
}
