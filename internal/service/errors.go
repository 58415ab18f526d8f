package service

import "errors"

// Таксономия ошибок движка. Вызывающий слой сопоставляет их через
// errors.Is; детали добавляются обёрткой fmt.Errorf("%w: ...").
var (
	// Отсутствующие или некорректные входные данные; никогда не персистится.
	ErrValidation = errors.New("validation error")
	// Мягкий бизнес-лимит одновременных активных бронирований.
	ErrQuotaExceeded = errors.New("booking quota exceeded")
	// Нарушение инварианта уникальности слота; разрешается без гонок.
	ErrSlotConflict = errors.New("slot already booked")
	// Запрошенный барбер/слот/бронирование не существует.
	ErrNotFound = errors.New("not found")
	// Недопустимый переход: чужое бронирование, терминальный статус,
	// удаление сущности с активными бронированиями.
	ErrForbiddenTransition = errors.New("forbidden transition")
)

// Максимум одновременных нетерминальных бронирований пользователя
// через онлайн-путь. Walk-in записи лимиту не подчиняются.
const MaxActiveBookings = 3
