// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

type assignmentData struct {
	Year     int
	Giver    string
	Receiver string
}

type adminNoticeData struct {
	Year int
}

func render(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	return b.String(), nil
}

var assignmentTemplate = template.Must(template.New("assignment").Parse(`<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
      <h1 style="color: #d42426; text-align: center;">🎁 Amigo Invisible {{.Year}} 🎁</h1>
      <p><strong>¡Hola {{.Giver}}!</strong></p>
      <p>Ya se ha realizado el sorteo. Este año te ha tocado regalar a:</p>

      <div style="background-color: #f9f9f9; padding: 15px; text-align: center; margin: 20px 0; border-radius: 5px;">
        <h2 style="color: #0c0; margin: 0; font-size: 24px;">✨ {{.Receiver}} ✨</h2>
      </div>

      <div style="background-color: #fff5f5; border: 1px solid #d42426; padding: 15px; margin: 20px 0; border-radius: 8px;">
        <h3 style="color: #d42426; margin-top: 0; font-size: 16px; text-align: center;">📜 NORMAS DE PARTICIPACIÓN</h3>
        <ul style="font-size: 14px; color: #555; padding-left: 20px; line-height: 1.5;">
          <li>💰 El importe máximo es de <strong>30 €</strong></li>
          <li>🎫 Hay que incluir <strong>ticket regalo</strong></li>
          <li>💭 Si se piensa en el regalado es más fácil acertar :)</li>
        </ul>
      </div>

      <p style="text-align: center; font-size: 12px; color: #777;">
        (Shhh... es un secreto. No se lo digas a nadie)
      </p>
      <hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;">
      <p style="text-align: center; font-size: 10px; color: #999;">
        Este mensaje ha sido enviado automáticamente por el sistema de Amigo Invisible de la Familia.
      </p>
    </div>
  </body>
</html>
`))

var adminNoticeTemplate = template.Must(template.New("admin-notice").Parse(`<html>
  <body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #333; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; padding: 30px; border-radius: 15px; border: 2px solid #d42426;">
      <div style="text-align: center; margin-bottom: 20px;">
        <span style="font-size: 50px;">🎅</span>
      </div>
      <h1 style="color: #d42426; text-align: center; margin-top: 0;">¡Registro completado!</h1>
      <p style="font-size: 16px; line-height: 1.6; text-align: center;">
        Ya se han registrado todos los familiares en la aplicación del amigo invisible. ✨
      </p>
      <p style="font-size: 16px; line-height: 1.6; text-align: center; font-weight: bold; color: #0c0;">
        ¡Ya puedes activar el sorteo y enviaremos los mails a todos los participantes!
      </p>

      <div style="background-color: #fff5f5; border: 1px dashed #d42426; padding: 15px; text-align: center; margin: 25px 0; border-radius: 10px;">
        <p style="margin: 0; font-size: 14px; color: #555;">Recuerda usar tu ADMIN_SECRET_KEY para disparar el sorteo:</p>
        <code style="display: block; margin-top: 10px; font-size: 18px; color: #d42426; font-weight: bold;">/api/admin/draw?key=...</code>
      </div>

      <hr style="border: 0; border-top: 1px solid #eee; margin: 30px 0;">
      <p style="text-align: center; font-size: 10px; color: #999;">
        Enviado desde tu servidor de Amigo Invisible {{.Year}}.
      </p>
    </div>
  </body>
</html>
`))
