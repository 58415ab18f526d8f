package schedule

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTimeLabel = errors.New("invalid time label")
)

// DateLayout — календарная дата без времени.
const DateLayout = "2006-01-02"

// Формат метки времени: "09:00 AM", "02:30 PM", пробел опционален.
var timeLabelRe = regexp.MustCompile(`^(0?[1-9]|1[0-2]):[0-5][0-9]\s?(AM|PM)$`)

// NormalizeDate валидирует дату и приводит к каноничному YYYY-MM-DD.
// Пустая или мусорная дата — ошибка: такие значения не должны попадать
// в хранилище (исторически они блокировали все будущие даты).
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidDate
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return d.Format(DateLayout), nil
}

// ValidTimeLabel — проверка формата метки времени.
func ValidTimeLabel(label string) bool {
	return timeLabelRe.MatchString(strings.ToUpper(strings.TrimSpace(label)))
}

// NormalizeTimeLabel валидирует метку и возвращает её в каноничном
// виде "HH:MM AM" с ведущим нулём.
func NormalizeTimeLabel(label string) (string, error) {
	m, err := MinutesOfDay(label)
	if err != nil {
		return "", err
	}
	return time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("03:04 PM"), nil
}

// MinutesOfDay переводит метку времени в минуты от полуночи —
// ключ хронологической сортировки слотов.
func MinutesOfDay(label string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if !timeLabelRe.MatchString(s) {
		return 0, ErrInvalidTimeLabel
	}
	var t time.Time
	var err error
	if strings.Contains(s, " ") {
		t, err = time.Parse("3:04 PM", s)
	} else {
		t, err = time.Parse("3:04PM", s)
	}
	if err != nil {
		return 0, ErrInvalidTimeLabel
	}
	return t.Hour()*60 + t.Minute(), nil
}

// LessTime — хронологический порядок двух меток. Нераспознаваемые
// метки сравниваются лексикографически, чтобы порядок оставался полным.
func LessTime(a, b string) bool {
	ma, errA := MinutesOfDay(a)
	mb, errB := MinutesOfDay(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ma < mb
}

// Effective — двухуровневое разрешение "override или дефолт":
// разреженная карта исключений на дату поверх плотного дефолта.
func Effective(override *bool, def bool) bool {
	if override != nil {
		return *override
	}
	return def
}
