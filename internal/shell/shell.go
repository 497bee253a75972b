// Package shell is the interactive menu loop: the welcome screen while
// logged out and the game menu while logged in.
package shell

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mcoot/playmaster/internal/console"
	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/session"
)

// Options configures a Shell
type Options struct {
	NoColor bool
}

// Shell drives a session controller from console input
type Shell struct {
	controller *session.Controller
	con        console.Console
	logger     *slog.Logger
	out        *renderer
}

// New creates a Shell
func New(controller *session.Controller, con console.Console, logger *slog.Logger, opts Options) *Shell {
	return &Shell{
		controller: controller,
		con:        con,
		logger:     logger,
		out:        newRenderer(con, opts.NoColor),
	}
}

// Run loops until the user exits or input closes. Closed input exits the
// session cleanly and is not an error.
func (s *Shell) Run(ctx context.Context) error {
	for !s.controller.Done() {
		var err error
		if s.controller.State() == model.SessionStateLoggedIn {
			err = s.gameMenu(ctx)
		} else {
			err = s.welcome(ctx)
		}

		if errors.Is(err, model.ErrInputClosed) {
			s.logger.Info("input closed, exiting")
			s.controller.Exit()
			return nil
		}
		if err != nil {
			s.controller.Exit()
			return err
		}
	}
	return nil
}

func (s *Shell) welcome(ctx context.Context) error {
	s.con.Clear()
	s.out.Heading("Welcome to PlayMaster!!")
	s.out.Println("Login: Users must log in before accessing the game.")
	s.out.Println("If you don't have an account, you can register.")

	for {
		choice, err := s.con.ReadLine(ctx, "Enter 'login', 'register', or 'exit': ")
		if err != nil {
			return err
		}

		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "login":
			return s.login(ctx)
		case "register":
			return s.register(ctx)
		case "exit":
			s.goodbye()
			return nil
		default:
			s.out.Failure("Invalid choice. Please enter 'login', 'register', or 'exit'.")
			if err := s.pause(ctx, "Press Enter to continue..."); err != nil {
				return err
			}
		}
	}
}

func (s *Shell) login(ctx context.Context) error {
	s.out.Heading("User Login")
	username, err := s.con.ReadLine(ctx, "Enter your username: ")
	if err != nil {
		return err
	}
	password, err := s.con.ReadPassword(ctx, "Enter your password: ")
	if err != nil {
		return err
	}

	if _, err := s.controller.Login(ctx, username, password); err != nil {
		if err := s.report(err); err != nil {
			return err
		}
		return s.pause(ctx, "Press Enter to continue...")
	}

	s.out.Success("Login successful! Welcome, %s", username)
	if err := s.pause(ctx, "Press Enter to continue..."); err != nil {
		return err
	}
	s.con.Clear()
	return nil
}

func (s *Shell) register(ctx context.Context) error {
	s.out.Heading("User Registration")
	username, err := s.con.ReadLine(ctx, "Enter your username: ")
	if err != nil {
		return err
	}

	// Reject a taken name before asking for a password
	if err := s.controller.CheckUsername(ctx, username); err != nil {
		if err := s.report(err); err != nil {
			return err
		}
		return s.pause(ctx, "Press Enter to continue...")
	}

	password, err := s.con.ReadPassword(ctx, "Enter your password: ")
	if err != nil {
		return err
	}
	confirm, err := s.con.ReadPassword(ctx, "Confirm your password: ")
	if err != nil {
		return err
	}

	if err := s.controller.Register(ctx, username, password, confirm); err != nil {
		if err := s.report(err); err != nil {
			return err
		}
		return s.pause(ctx, "Press Enter to continue...")
	}

	s.out.Success("User registration successful!")
	return s.pause(ctx, "Press Enter to continue...")
}

func (s *Shell) gameMenu(ctx context.Context) error {
	sess, _ := s.controller.Session()
	games := s.controller.Games()
	historyChoice := strconv.Itoa(len(games) + 1)
	logoutChoice := strconv.Itoa(len(games) + 2)
	exitChoice := strconv.Itoa(len(games) + 3)

	s.out.Printf("\nWelcome back, %s!\n", sess.Username)
	s.out.Heading("Game Menu")
	for _, e := range games {
		s.out.Printf("%s. Play %s\n", e.ID, e.Game.Name())
	}
	s.out.Printf("%s. View Game History\n", historyChoice)
	s.out.Printf("%s. Logout\n", logoutChoice)
	s.out.Printf("%s. Exit\n", exitChoice)

	choice, err := s.con.ReadLine(ctx, "Enter your choice: ")
	if err != nil {
		return err
	}
	choice = strings.TrimSpace(choice)

	switch choice {
	case historyChoice:
		if err := s.showHistory(ctx, sess.Username); err != nil {
			return err
		}
		return s.returnToMenu(ctx)
	case logoutChoice:
		if err := s.controller.Logout(); err != nil {
			return err
		}
		s.con.Clear()
		s.out.Println("Logged out. See you next time!")
		return s.pause(ctx, "Press Enter to return to the main menu...")
	case exitChoice:
		s.goodbye()
		return nil
	}

	if err := s.play(ctx, choice); err != nil {
		return err
	}
	return nil
}

func (s *Shell) play(ctx context.Context, choice string) error {
	_, record, err := s.controller.Play(ctx, choice, s.con)
	switch {
	case errors.Is(err, model.ErrUnknownGame):
		s.out.Failure("Invalid choice. Please try again.")
		return nil
	case err != nil:
		if err := s.report(err); err != nil {
			return err
		}
	default:
		s.out.Success("Saved as game #%d with score %d.", record.GameID, record.Score)
	}
	return s.returnToMenu(ctx)
}

func (s *Shell) showHistory(ctx context.Context, username string) error {
	seq, err := s.controller.History(ctx)
	if err != nil {
		return err
	}

	s.out.Heading("Game History")
	s.out.Printf("\n%s's Games:\n", username)
	count := 0
	for record, err := range seq {
		if err != nil {
			return s.report(err)
		}
		s.out.Record(record)
		count++
	}
	if count == 0 {
		s.out.Println("   No games played yet.")
	}
	return nil
}

func (s *Shell) returnToMenu(ctx context.Context) error {
	if err := s.pause(ctx, "Press Enter to return to the main menu..."); err != nil {
		return err
	}
	s.con.Clear()
	return nil
}

func (s *Shell) goodbye() {
	s.out.Println("Thank you for using PlayMaster. Goodbye!")
	s.controller.Exit()
}

// pause waits for Enter on a terminal; scripted input is not paused
func (s *Shell) pause(ctx context.Context, prompt string) error {
	if !s.con.Interactive() {
		return nil
	}
	_, err := s.con.ReadLine(ctx, prompt)
	return err
}

// report shows a recoverable error to the user. Closed input and context
// errors are returned for the caller to stop on.
func (s *Shell) report(err error) error {
	switch {
	case errors.Is(err, model.ErrInputClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, model.ErrUserNotFound):
		s.out.Failure("User not found. Please register before attempting to login.")
	case errors.Is(err, model.ErrWrongPassword):
		s.out.Failure("Incorrect password. Please try again.")
	case errors.Is(err, model.ErrUsernameTaken):
		s.out.Failure("Username already exists. Please choose another.")
	case errors.Is(err, model.ErrPasswordMismatch):
		s.out.Failure("Passwords do not match. Please try again.")
	case errors.Is(err, model.ErrInvalidInput):
		s.out.Failure("Username cannot be empty.")
	case errors.Is(err, model.ErrWordListEmpty), errors.Is(err, model.ErrWordListLoad):
		s.out.Failure("Hangman is unavailable: %v", err)
		s.logger.Error("word list unavailable", slog.String("error", err.Error()))
	default:
		s.out.Failure("Something went wrong: %v", err)
		s.logger.Error("operation failed", slog.String("error", err.Error()))
	}
	return nil
}
