package booking

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/hotelops-api/internal/domain"
)

// Nights calcula el número entero de noches de la ventana [checkIn, checkOut).
// Las fechas deben ser días completos (medianoche); una ventana vacía o
// invertida es entrada inválida. El conteo es por fecha de calendario: una
// medianoche local a cada lado de un cambio de hora no es múltiplo exacto de
// 24h y aun así vale sus noches enteras.
func Nights(checkIn, checkOut time.Time) (int, error) {
	if !midnight(checkIn) || !midnight(checkOut) {
		return 0, domain.ErrInvalidInput
	}
	in := calendarDay(checkIn)
	out := calendarDay(checkOut)
	nights := int(out.Sub(in).Hours() / 24)
	if nights <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return nights, nil
}

// Quote precio total de la estadía: tarifa por noche * noches.
func Quote(nightlyRate decimal.Decimal, nights int) decimal.Decimal {
	return nightlyRate.Mul(decimal.NewFromInt(int64(nights)))
}

// Overlaps prueba de solape de intervalos semiabiertos [aIn, aOut) y
// [bIn, bOut): fechas límite iguales no chocan, lo que habilita reservas
// espalda con espalda.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

func midnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// calendarDay normaliza la fecha de calendario a medianoche UTC, de modo que
// la resta entre dos días sea siempre un múltiplo exacto de 24h.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
