package service

import "fmt"

func escalationEmailTemplate(phoneNumber, emergencyContact string, misses int, appName string) (string, string) {
	subject := fmt.Sprintf("[%s] Escalation sent for %s", appName, phoneNumber)
	body := fmt.Sprintf(`An escalation text was sent to %s.

%s has not responded to their goal tracker for %d consecutive days.

The miss counter has been reset; another escalation follows if the silence continues.

Best,
The %s Team`, emergencyContact, phoneNumber, misses, appName)

	return subject, body
}
