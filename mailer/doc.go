// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mailer sends the draw emails.

	m := mailer.NewSMTPMailer(cfg)
	err := m.SendAssignment(ctx, giver.Email, giver.Name, receiver.Name)

Messages are built and sent with wneessen/go-mail over SMTP with TLS from
the first byte (port 465) and PLAIN auth, using EMAIL_USER as both login and
sender. Bodies are html/template
renders, so names are escaped.

SendAdminNotice tells the organizer that every participant has registered.

Missing credentials return ErrNotConfigured without touching the network.
*/
package mailer
