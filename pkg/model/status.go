package model

type BookingStatus int

const (
	BookingPending   BookingStatus = 1
	BookingConfirmed BookingStatus = 2
	BookingCancelled BookingStatus = 3
	BookingCheckedIn BookingStatus = 4
	BookingCompleted BookingStatus = 5
)

var bookingStatusNames = map[BookingStatus]string{
	BookingPending:   "pending",
	BookingConfirmed: "confirmed",
	BookingCancelled: "cancelled",
	BookingCheckedIn: "checked_in",
	BookingCompleted: "completed",
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingStatusNames[s]
	return ok
}

func (s BookingStatus) String() string {
	if name, ok := bookingStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Active reports whether the booking still holds its room.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCheckedIn
}

// AllBookingStatuses is ordered by id.
var AllBookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingCancelled, BookingCheckedIn, BookingCompleted,
}

type PaymentStatus int

const (
	PaymentUnpaid        PaymentStatus = 1
	PaymentPartiallyPaid PaymentStatus = 2
	PaymentPaid          PaymentStatus = 3
	PaymentCancelled     PaymentStatus = 4
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentUnpaid:        "unpaid",
	PaymentPartiallyPaid: "partially_paid",
	PaymentPaid:          "paid",
	PaymentCancelled:     "cancelled",
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentStatusNames[s]
	return ok
}

func (s PaymentStatus) String() string {
	if name, ok := paymentStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

type RoomType int

const (
	RoomStandard RoomType = 1
	RoomSuperior RoomType = 2
	RoomDeluxe   RoomType = 3
	RoomSuite    RoomType = 4
	RoomFamily   RoomType = 5
)

func (t RoomType) Valid() bool {
	return t >= RoomStandard && t <= RoomFamily
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingCheckedIn},
	BookingConfirmed: {BookingPending, BookingCancelled, BookingCheckedIn},
	BookingCheckedIn: {BookingCompleted},
}

// CanTransition reports whether a booking may move from s to next.
// Cancelled and completed bookings are final.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
