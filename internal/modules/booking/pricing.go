package booking

import (
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/calendar"
)

// PriceStay sums the nightly price of every night for units rooms and
// applies the room tax rate once to the sum.
func PriceStay(room *domain.Room, nights []domain.RoomAvailability, units int) PricingSummary {
	out := PricingSummary{
		Nights:      len(nights),
		RoomsBooked: units,
		PerNight:    make([]NightPrice, 0, len(nights)),
	}
	for i := range nights {
		price := nights[i].NightlyPrice(room.BasePrice)
		subtotal := price.Times(units)
		out.BasePrice += subtotal
		out.PerNight = append(out.PerNight, NightPrice{
			Date:     calendar.NewDate(nights[i].Date),
			Price:    price,
			Subtotal: subtotal,
		})
	}
	out.TaxAmount = out.BasePrice.Percent(room.TaxRate)
	out.TotalAmount = out.BasePrice + out.TaxAmount
	return out
}
