package validate

import (
	"regexp"
	"strings"
	"time"
)

// FieldErrors maps a form field name to the i18n key of its error message.
// An empty map means the form is valid.
type FieldErrors map[string]string

func (e FieldErrors) Valid() bool { return len(e) == 0 }

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^010-?\d{3,4}-?\d{1,4}$`)

	tagPattern      = regexp.MustCompile(`<[^>]*>?`)
	jsPattern       = regexp.MustCompile(`(?i)javascript:`)
	handlerPattern  = regexp.MustCompile(`(?i)on\w+=`)
	dataPattern     = regexp.MustCompile(`(?i)data:`)
	digitsPattern   = regexp.MustCompile(`\d`)
	lettersPattern  = regexp.MustCompile(`[a-zA-Z]`)
	specialsPattern = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Sanitize strips markup and script-injection vectors from user input and
// caps it at max runes. Mirrors what every input field did before sending
// anything to the backend.
func Sanitize(input string, max int) string {
	s := tagPattern.ReplaceAllString(input, "")
	s = jsPattern.ReplaceAllString(s, "")
	s = handlerPattern.ReplaceAllString(s, "")
	s = dataPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, `\`, "")

	runes := []rune(s)
	if len(runes) > max {
		s = string(runes[:max])
	}
	return s
}

// EmailOK reports whether the address matches the form's email pattern.
func EmailOK(email string) bool {
	return emailPattern.MatchString(email)
}

// Login validates the login form. Both fields are checked independently so
// the user sees every problem at once.
func Login(email, password string) FieldErrors {
	errs := FieldErrors{}
	email = strings.TrimSpace(email)

	if email == "" {
		errs["email"] = "login.emailRequired"
	} else if !EmailOK(email) {
		errs["email"] = "login.emailFormat"
	}

	if password == "" {
		errs["password"] = "login.passwordRequired"
	} else if len(password) < 4 {
		errs["password"] = "login.passwordMin"
	}

	return errs
}

// SignupForm is the full signup submission.
type SignupForm struct {
	Email           string
	Nickname        string
	Password        string
	PasswordConfirm string
	BirthDate       string // YYYY-MM-DD
	Phone           string
	AgreedTerms     bool
}

// Signup validates the signup form.
func Signup(form SignupForm, now time.Time) FieldErrors {
	errs := FieldErrors{}

	if !EmailOK(strings.TrimSpace(form.Email)) {
		errs["email"] = "signup.emailFormat"
	}

	nickLen := len([]rune(strings.TrimSpace(form.Nickname)))
	if nickLen < 2 || nickLen > 12 {
		errs["nickname"] = "signup.nicknameLength"
	}

	if len(form.Password) < 8 {
		errs["password"] = "signup.passwordMin"
	}
	if form.Password != form.PasswordConfirm {
		errs["passwordConfirm"] = "signup.passwordMismatch"
	}

	if age, ok := ageAt(form.BirthDate, now); !ok || age < 14 {
		errs["birthDate"] = "signup.ageLimit"
	}

	if !phonePattern.MatchString(strings.TrimSpace(form.Phone)) {
		errs["phone"] = "signup.phoneFormat"
	}

	if !form.AgreedTerms {
		errs["terms"] = "signup.termsRequired"
	}

	return errs
}

// PasswordStrength classifies a password as weak, medium or strong based on
// length and character variety.
func PasswordStrength(password string) string {
	variety := 0
	if digitsPattern.MatchString(password) {
		variety++
	}
	if lettersPattern.MatchString(password) {
		variety++
	}
	if specialsPattern.MatchString(password) {
		variety++
	}

	switch {
	case len(password) >= 12 && variety >= 3:
		return "strong"
	case len(password) >= 8 && variety >= 2:
		return "medium"
	default:
		return "weak"
	}
}

const (
	maxContactFiles    = 3
	maxContactFileSize = 5 * 1024 * 1024
)

// ContactForm is the support form submission.
type ContactForm struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	FileSizes []int64
}

// Contact validates the contact form. All four required-field errors are
// reported together when the form is empty.
func Contact(form ContactForm) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(form.Name) == "" {
		errs["name"] = "contact.nameRequired"
	}
	if strings.TrimSpace(form.Email) == "" {
		errs["email"] = "contact.emailRequired"
	} else if !EmailOK(form.Email) {
		errs["email"] = "contact.emailFormat"
	}
	if strings.TrimSpace(form.Subject) == "" {
		errs["subject"] = "contact.subjectRequired"
	}
	if strings.TrimSpace(form.Message) == "" {
		errs["message"] = "contact.messageRequired"
	}

	if len(form.FileSizes) > maxContactFiles {
		errs["files"] = "contact.tooManyFiles"
	} else {
		for _, size := range form.FileSizes {
			if size > maxContactFileSize {
				errs["files"] = "contact.fileTooLarge"
				break
			}
		}
	}

	return errs
}

// Room validates the room-creation form after sanitization.
func Room(title, topic string, keywords []string) FieldErrors {
	errs := FieldErrors{}

	titleLen := len([]rune(strings.TrimSpace(title)))
	if titleLen < 3 || titleLen > 50 {
		errs["title"] = "room.titleLength"
	}

	topicLen := len([]rune(strings.TrimSpace(topic)))
	if topicLen < 10 || topicLen > 200 {
		errs["topic"] = "room.topicLength"
	}

	if len(keywords) > 5 {
		errs["keywords"] = "room.tooManyKeywords"
	}

	return errs
}

// Reset validates the password-reset form.
func Reset(email string) FieldErrors {
	errs := FieldErrors{}
	email = strings.TrimSpace(email)
	if email == "" {
		errs["email"] = "reset.emailRequired"
	} else if !EmailOK(email) {
		errs["email"] = "login.emailFormat"
	}
	return errs
}

func ageAt(birthDate string, now time.Time) (int, bool) {
	born, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return 0, false
	}
	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	return age, true
}
