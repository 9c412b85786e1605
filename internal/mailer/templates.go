package mailer

import "fmt"

// Email bodies mirror the application's French UI copy.

func wrapHTML(content string) string {
	return fmt.Sprintf(`<!doctype html>
<html lang="fr">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
%s
    <p>
      À bientôt !
    </p>
  </body>
</html>`, content)
}

// VerificationEmail asks a fresh signup to confirm their address.
func VerificationEmail(name, email, verifURL string) Message {
	content := fmt.Sprintf(`    <p>
      Bonjour %s,
    </p>
    <p>
      Avant d’utiliser ExploraNotes, veuillez <a href="%s">confirmer votre adresse mail</a>.
    </p>`, name, verifURL)

	return Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Bienvenue dans ExploraNotes !",
		HTML:    wrapHTML(content),
	}
}

// JoinRequestEmail tells a school admin that a teacher wants to join.
func JoinRequestEmail(adminName, adminEmail, teacherName, teacherEmail, acceptURL string) Message {
	content := fmt.Sprintf(`    <p>
      Bonjour %s,
    </p>
    <p>
      %s souhaite rejoindre votre établissement. Son adresse email est %s.
    </p>
    <p>
      Si vous reconnaissez cet utilisateur, vous pouvez <a href="%s">accepter sa demande</a>.
    </p>`, adminName, teacherName, teacherEmail, acceptURL)

	return Message{
		ToName:  adminName,
		ToEmail: adminEmail,
		Subject: "Un utilisateur souhaite rejoindre votre établissement",
		HTML:    wrapHTML(content),
	}
}
