package web

import "strings"

//RequiredFieldsMessage formats a validation failure listing the missing fields,
//e.g. "user is required" or "user, password are required"
func RequiredFieldsMessage(fields ...string) string {
	verb := " is "
	if len(fields) > 1 {
		verb = " are "
	}
	return strings.Join(fields, ", ") + verb + "required"
}
