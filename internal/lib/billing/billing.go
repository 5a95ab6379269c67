// Package billing содержит чистые функции расчёта платёжного цикла абонемента.
// Решётка платёжных дат привязана к дате регистрации клиента; подтверждение
// платежа всегда двигает существующую дату вперёд ровно на один интервал,
// пересчёт от даты регистрации выполняется только при смене типа абонемента.
package billing

import (
	"time"

	"github.com/solarclean/reservation-backend/internal/models"
)

// Интервалы оплаты в днях.
const (
	MonthlyIntervalDays = 30
	YearlyIntervalDays  = 365
)

// IntervalDays возвращает длину платёжного интервала для типа абонемента.
func IntervalDays(plan string) int {
	if plan == models.PlanYearly {
		return YearlyIntervalDays
	}
	return MonthlyIntervalDays
}

// Day усекает момент времени до календарного дня в UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AdvanceOnPayment двигает текущую дату платежа вперёд ровно на один интервал,
// независимо от сегодняшней даты. Если пропущено несколько циклов, дата может
// остаться в прошлом: каждое подтверждение закрывает ровно один цикл.
func AdvanceOnPayment(current time.Time, plan string) time.Time {
	return Day(current).AddDate(0, 0, IntervalDays(plan))
}

// NextFromSignup возвращает ближайшую дату платёжной решётки, строго большую now.
// Месячный абонемент шагает по 30 дней от даты регистрации, годовой — по
// календарным годовщинам регистрации.
func NextFromSignup(signup time.Time, plan string, now time.Time) time.Time {
	next := Day(signup)
	ref := Day(now)
	for !next.After(ref) {
		if plan == models.PlanYearly {
			next = next.AddDate(1, 0, 0)
		} else {
			next = next.AddDate(0, 0, MonthlyIntervalDays)
		}
	}
	return next
}

// DaysOverdue возвращает количество полных дней просрочки платежа.
// Для непросроченного клиента результат не имеет смысла и будет <= 0.
func DaysOverdue(next, today time.Time) int {
	return int(Day(today).Sub(Day(next)).Hours() / 24)
}
