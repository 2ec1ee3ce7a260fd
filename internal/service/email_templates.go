package service

import "fmt"

func verificationEmailTemplate(name, verifyURL, appName string) (string, string) {
	subject := fmt.Sprintf("Verify your email for %s", appName)
	body := fmt.Sprintf(`Hi %s,

Thanks for joining %s! Please confirm your email address by clicking this link:
%s

This link expires in 24 hours and can only be used once.

If you didn't create an account, you can safely ignore this email.

Happy building,
The %s Team`, name, appName, verifyURL, appName)

	return subject, body
}

func welcomeEmailTemplate(name, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your email is verified. Share what you're building with the community:
%s

Best,
The %s Team`, name, appURL, appName)

	return subject, body
}
