package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"shop-telegram/models"
)

// Step is the checkout step of an incomplete order. It is derived from
// which order fields are unset and never stored.
type Step int

const (
	StepAwaitingName Step = iota
	StepAwaitingPhone
	StepAwaitingLocation
	StepAwaitingConfirm
)

func StepFor(o *models.Order) Step {
	switch {
	case o.UserName == nil:
		return StepAwaitingName
	case o.UserPhone == nil:
		return StepAwaitingPhone
	case o.Location == nil:
		return StepAwaitingLocation
	default:
		return StepAwaitingConfirm
	}
}

func IsIncomplete(o *models.Order) bool {
	return o.UserName == nil || o.UserPhone == nil || o.Location == nil
}

const (
	minNameLen  = 2
	minPhoneLen = 9
)

var phoneRe = regexp.MustCompile(`^[0-9+\-() ]+$`)

// ValidateName returns the trimmed name or a ValidationError when it is
// shorter than two characters.
func ValidateName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if utf8.RuneCountInString(name) < minNameLen {
		return "", &ValidationError{Field: "name", Reason: "too short"}
	}
	return name, nil
}

// ValidatePhone accepts digits, "+", "-", "(", ")" and spaces, at least
// nine characters, e.g. "+998(98)765-43-21".
func ValidatePhone(s string) (string, error) {
	phone := strings.TrimSpace(s)
	if len(phone) < minPhoneLen || !phoneRe.MatchString(phone) {
		return "", &ValidationError{Field: "phone", Reason: "not a phone number"}
	}
	return phone, nil
}

// FormatLocation validates the coordinate ranges and renders the stored
// "lat,lon" form. Coordinates always carry a decimal point, so 45 is
// stored as "45.0".
func FormatLocation(lat, lon float64) (string, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return "", &ValidationError{Field: "location", Reason: "coordinates out of range"}
	}
	return formatCoord(lat) + "," + formatCoord(lon), nil
}

func formatCoord(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseLocation decodes a stored "lat,lon" string.
func ParseLocation(s string) (lat, lon float64, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, &ValidationError{Field: "location", Reason: "not a lat,lon pair"}
	}
	lat, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, &ValidationError{Field: "location", Reason: "bad latitude"}
	}
	lon, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, &ValidationError{Field: "location", Reason: "bad longitude"}
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, &ValidationError{Field: "location", Reason: "coordinates out of range"}
	}
	return lat, lon, nil
}

// CallbackAction is an inline button action on the confirmation view.
type CallbackAction string

const (
	ActionChangeName     CallbackAction = "change_name"
	ActionChangePhone    CallbackAction = "change_phone"
	ActionChangeLocation CallbackAction = "change_location"
	ActionConfirmOrder   CallbackAction = "confirm_order"
	ActionCancelOrder    CallbackAction = "cancel_order"
)

var callbackActions = []CallbackAction{
	ActionChangeName,
	ActionChangePhone,
	ActionChangeLocation,
	ActionConfirmOrder,
	ActionCancelOrder,
}

// ParseCallback splits callback data of the form "<action>_<orderID>".
// Unknown actions and malformed ids report ok=false; callers ignore those
// updates instead of failing.
func ParseCallback(data string) (action CallbackAction, orderID int64, ok bool) {
	for _, a := range callbackActions {
		prefix := string(a) + "_"
		if !strings.HasPrefix(data, prefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
		if err != nil || id <= 0 {
			return "", 0, false
		}
		return a, id, true
	}
	return "", 0, false
}
