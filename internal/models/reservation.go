package models

import "time"

// Статусы бронирования.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
)

// Reservation представляет бронирование выезда бригады к клиенту.
type Reservation struct {
	ID             int       // Идентификатор бронирования
	ClientID       string    // Идентификатор клиента
	Date           time.Time // Дата выезда
	TimeSlot       string    // Временной слот, например "10:00-12:00"
	Longitude      float64   // Долгота точки обслуживания
	Latitude       float64   // Широта точки обслуживания
	NumberOfPanels int       // Количество панелей на объекте
	Status         string    // Статус бронирования
}

// DummyReservation используется для приёма данных бронирования из JSON-запроса.
// Слот считается занятым, если на эту дату и время уже есть запись.
type DummyReservation struct {
	ClientID       string  `json:"client_id" validate:"required,uuid"`
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot       string  `json:"time_slot" validate:"required"`
	Longitude      float64 `json:"longitude" validate:"required"`
	Latitude       float64 `json:"latitude" validate:"required"`
	NumberOfPanels int     `json:"number_of_panels" validate:"required,gt=0"`
}
