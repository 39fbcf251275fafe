package service

import "fmt"

func welcomeEmailTemplate(username, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Sign in and log your first workout, meal or step count:
%s

Best,
The %s Team`, username, appURL, appName)

	return subject, body
}
