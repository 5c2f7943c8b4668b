package onboarding

import (
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// normalize trims whitespace from everything except the password.
func normalize(in Input) Input {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// validate runs the local checks. Password rules are reported in priority
// order: length, then digit, then special character. Returns an empty map
// when the input is acceptable.
func validate(flow Flow, in Input) FieldErrors {
	errs := FieldErrors{}

	if flow == FlowJoin {
		if in.FirstName == "" {
			errs[FieldFirstName] = msgFirstNameRequired
		}
		if in.LastName == "" {
			errs[FieldLastName] = msgLastNameRequired
		}
	}

	if in.Email == "" || !emailPattern.MatchString(in.Email) {
		errs[FieldEmail] = msgEmailRequired
	}

	switch {
	case len(in.Password) < 8:
		errs[FieldPassword] = msgPasswordLength
	case !strings.ContainsFunc(in.Password, unicode.IsDigit):
		errs[FieldPassword] = msgPasswordDigit
	case !strings.ContainsFunc(in.Password, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}):
		errs[FieldPassword] = msgPasswordSpecial
	}

	return errs
}
