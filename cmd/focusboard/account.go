package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/nhle/focusboard/internal/auth"
	"github.com/nhle/focusboard/internal/credential"
)

func signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "create a local account and log in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "first", Usage: "first name"},
			&cli.StringFlag{Name: "last", Usage: "last name"},
			&cli.StringFlag{Name: "email"},
			&cli.StringFlag{Name: "password"},
			&cli.BoolFlag{Name: "newsletter", Usage: "subscribe to the newsletter"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			in := auth.SignupInput{
				FirstName:  c.String("first"),
				LastName:   c.String("last"),
				Email:      c.String("email"),
				Password:   c.String("password"),
				Confirm:    c.String("password"),
				Newsletter: c.Bool("newsletter"),
			}
			if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
				if err := signupForm(&in).Run(); err != nil {
					return err
				}
			}

			user, err := e.auth.Signup(c.Context, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Welcome, %s! You are logged in as %s.\n", user.FirstName, user.Email)
			fmt.Fprintln(c.App.Writer, strengthLine(in.Password))
			return nil
		}),
	}
}

func strengthLine(password string) string {
	score, label := auth.PasswordStrength(password)
	return fmt.Sprintf("Password strength: %s (%d/4)", label, score)
}

func signupForm(in *auth.SignupInput) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("First name").Value(&in.FirstName),
		huh.NewInput().Title("Last name").Value(&in.LastName),
		huh.NewInput().Title("Email").Value(&in.Email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&in.Password).
			DescriptionFunc(func() string { return strengthLine(in.Password) }, &in.Password),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&in.Confirm),
		huh.NewConfirm().Title("Subscribe to the newsletter?").Value(&in.Newsletter),
	))
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "log in with email and password",
		ArgsUsage: "<email>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "password", Usage: "password (prompted when omitted)"},
			&cli.BoolFlag{Name: "remember", Usage: "store the password in the OS keyring"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			email := c.Args().First()
			if email == "" {
				return errUsage(c)
			}

			kr, _ := e.keyring()
			password := c.String("password")
			if password == "" && kr != nil {
				if remembered, err := kr.Recall(email); err == nil {
					password = remembered
				} else if !errors.Is(err, credential.ErrNotRemembered) {
					e.logger.Warn("reading keyring failed", zap.Error(err))
				}
			}
			if password == "" {
				err := huh.NewInput().
					Title("Password for " + email).
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Run()
				if err != nil {
					return err
				}
			}

			user, err := e.auth.Login(c.Context, email, password)
			if err != nil {
				return err
			}
			if c.Bool("remember") {
				if kr == nil {
					fmt.Fprintln(c.App.ErrWriter, "warning: no keyring available; password not remembered")
				} else if err := kr.Remember(email, password); err != nil {
					return fmt.Errorf("remembering password: %w", err)
				}
			}
			fmt.Fprintf(c.App.Writer, "Logged in as %s.\n", user.FullName())
			return nil
		}),
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "log out of the current account",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "forget", Usage: "also remove the remembered password"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			user, err := e.auth.Current(c.Context)
			if err != nil {
				return err
			}
			if user != nil && c.Bool("forget") {
				if kr, err := e.keyring(); err == nil {
					if err := kr.Forget(user.Email); err != nil {
						return fmt.Errorf("forgetting password: %w", err)
					}
				}
			}
			if err := e.auth.Logout(c.Context); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Logged out.")
			return nil
		}),
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the logged-in user",
		Action: withEnv(func(c *cli.Context, e *env) error {
			user, err := e.currentUser(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s <%s>\nid: %s\njoined: %s\n",
				user.FullName(), user.Email, user.ID, user.Joined.Format("2006-01-02"))
			return nil
		}),
	}
}
