package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-crud/internal/application"
	"github.com/oksasatya/go-user-crud/internal/domain/repository"
)

var errEndOfInput = errors.New("end of input")

// UserConsole is the interactive menu over application.UserService.
// It owns the only place where errors become user-facing messages.
type UserConsole struct {
	Svc    application.UserService
	Logger *logrus.Logger
	in     *bufio.Reader
	out    io.Writer
	inErr  error
}

func NewUserConsole(svc application.UserService, logger *logrus.Logger, in io.Reader, out io.Writer) *UserConsole {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &UserConsole{Svc: svc, Logger: logger, in: bufio.NewReader(in), out: out}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// Cancellation is noticed between actions; a pending read is not interrupted.
func (c *UserConsole) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			c.println("\nBye.")
			return nil
		}
		c.printMenu()
		choice, err := c.readLine()
		if err != nil {
			return c.endOfInput()
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = c.createUser(ctx)
		case "2":
			err = c.listUsers(ctx)
		case "3":
			err = c.updateUser(ctx)
		case "4":
			err = c.deleteUser(ctx)
		case "0":
			c.println("Bye.")
			return nil
		default:
			c.println("Unknown choice, try again.")
		}

		if errors.Is(err, errEndOfInput) {
			return c.endOfInput()
		}
		if err != nil {
			c.report(err)
		}
	}
}

func (c *UserConsole) printMenu() {
	c.println("\n=== Menu ===")
	c.println("1. Create user")
	c.println("2. List users")
	c.println("3. Update user")
	c.println("4. Delete user")
	c.println("0. Exit")
	c.print("Choose an action: ")
}

func (c *UserConsole) createUser(ctx context.Context) error {
	name, err := c.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := c.prompt("Email: ")
	if err != nil {
		return err
	}
	age, err := c.promptInt("Age: ", "age")
	if err != nil {
		return err
	}
	u, err := c.Svc.Create(ctx, strings.TrimSpace(name), strings.TrimSpace(email), age)
	if err != nil {
		return err
	}
	c.println(fmt.Sprintf("User created with id=%d", u.ID))
	return nil
}

func (c *UserConsole) listUsers(ctx context.Context) error {
	users, err := c.Svc.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		c.println("No users.")
		return nil
	}
	c.println("Users:")
	for _, u := range users {
		c.println(u.String())
	}
	return nil
}

func (c *UserConsole) updateUser(ctx context.Context) error {
	id, err := c.promptID("User ID to update: ")
	if err != nil {
		return err
	}
	existing, err := c.Svc.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		c.println(fmt.Sprintf("User with id=%d not found.", id))
		return nil
	}
	c.println("Current: " + existing.String())

	var in application.UpdateUserInput
	if in.Name, err = c.prompt("New name (ENTER to keep): "); err != nil {
		return err
	}
	if in.Email, err = c.prompt("New email (ENTER to keep): "); err != nil {
		return err
	}
	in.Name, in.Email = strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	rawAge, err := c.prompt("New age (ENTER to keep): ")
	if err != nil {
		return err
	}
	if rawAge = strings.TrimSpace(rawAge); rawAge != "" {
		age, err := strconv.Atoi(rawAge)
		if err != nil {
			return &InputFormatError{Field: "age", Input: rawAge, Err: err}
		}
		in.Age = &age
	}

	u, err := c.Svc.Update(ctx, id, in)
	if err != nil {
		return err
	}
	c.println("User updated: " + u.String())
	return nil
}

func (c *UserConsole) deleteUser(ctx context.Context) error {
	id, err := c.promptID("User ID to delete: ")
	if err != nil {
		return err
	}
	u, err := c.Svc.Delete(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		c.println(fmt.Sprintf("User with id=%d not found.", id))
		return nil
	}
	c.println("User deleted: " + u.String())
	return nil
}

// report turns an error into a console message; the menu loop keeps running.
func (c *UserConsole) report(err error) {
	var (
		formatErr     *InputFormatError
		validationErr *application.ValidationError
		notFoundErr   *application.NotFoundError
		storageErr    *repository.StorageError
	)
	switch {
	case errors.As(err, &formatErr):
		c.Logger.WithField("field", formatErr.Field).Debug("rejected numeric input")
		c.println("Please enter digits only where an ID or age is required.")
	case errors.As(err, &validationErr):
		c.println(validationErr.Error())
	case errors.As(err, &notFoundErr):
		c.println(notFoundErr.Error())
	case errors.As(err, &storageErr):
		c.Logger.WithError(storageErr.Err).WithField("op", storageErr.Op).Error("database error")
		c.println("Database error, the operation was not completed.")
	default:
		c.Logger.WithError(err).Error("unexpected error")
		c.println("Something went wrong: " + err.Error())
	}
}

func (c *UserConsole) prompt(label string) (string, error) {
	c.print(label)
	return c.readLine()
}

func (c *UserConsole) promptInt(label, field string) (int, error) {
	raw, err := c.prompt(label)
	if err != nil {
		return 0, err
	}
	raw = strings.TrimSpace(raw)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InputFormatError{Field: field, Input: raw, Err: err}
	}
	return v, nil
}

func (c *UserConsole) promptID(label string) (int64, error) {
	raw, err := c.prompt(label)
	if err != nil {
		return 0, err
	}
	raw = strings.TrimSpace(raw)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &InputFormatError{Field: "id", Input: raw, Err: err}
	}
	return id, nil
}

// readLine returns the next line without its terminator. Lines have no length limit.
func (c *UserConsole) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			c.inErr = err
		}
		if line == "" || c.inErr != nil {
			return "", errEndOfInput
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *UserConsole) endOfInput() error {
	c.println("")
	return c.inErr
}

func (c *UserConsole) print(s string)   { _, _ = fmt.Fprint(c.out, s) }
func (c *UserConsole) println(s string) { _, _ = fmt.Fprintln(c.out, s) }
