package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	SendUpdate(ctx context.Context, userID int64, firstName, text string) error
	PostWithoutToken(ctx context.Context) error
	LastReply() string
	LastStatus() int
	WaitForNotification(ctx context.Context, userID int64) (string, error)
}

// RegisterSteps registers chat step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &chatSteps{tc: tc}

	ctx.Step(`^user (\d+) named "([^"]*)" sends "([^"]*)"$`, steps.send)
	ctx.Step(`^user (\d+) named "([^"]*)" validates the last delivery code$`, steps.validateLastCode)
	ctx.Step(`^user (\d+) named "([^"]*)" has registered campaign "([^"]*)"$`, steps.registerCampaign)
	ctx.Step(`^user (\d+) named "([^"]*)" has donated "([^"]*)" liters to "([^"]*)"$`, steps.donate)
	ctx.Step(`^an update is posted without a gateway token$`, steps.postWithoutToken)

	ctx.Step(`^the reply contains "([^"]*)"$`, steps.replyContains)
	ctx.Step(`^the reply is "([^"]*)"$`, steps.replyIs)
	ctx.Step(`^the reply carries a delivery code$`, steps.replyCarriesCode)
	ctx.Step(`^user (\d+) is notified with "([^"]*)"$`, steps.notified)
	ctx.Step(`^the response status is (\d+)$`, steps.statusIs)
}

type chatSteps struct {
	tc           TestContext
	deliveryCode string
}

func (s *chatSteps) send(ctx context.Context, userID int64, name, text string) error {
	return s.tc.SendUpdate(ctx, userID, name, text)
}

func (s *chatSteps) validateLastCode(ctx context.Context, userID int64, name string) error {
	if s.deliveryCode == "" {
		return fmt.Errorf("no delivery code seen yet")
	}
	return s.tc.SendUpdate(ctx, userID, name, "/validar "+strings.ToLower(s.deliveryCode))
}

func (s *chatSteps) registerCampaign(ctx context.Context, userID int64, name, code string) error {
	for _, text := range []string{"/cadastrar_local", "Instituição de " + name, name, code} {
		if err := s.tc.SendUpdate(ctx, userID, name, text); err != nil {
			return err
		}
	}
	return s.replyContains(ctx, code)
}

func (s *chatSteps) donate(ctx context.Context, userID int64, name, liters, code string) error {
	for _, text := range []string{"/participar", code, "/doar", liters} {
		if err := s.tc.SendUpdate(ctx, userID, name, text); err != nil {
			return err
		}
	}
	return s.replyCarriesCode(ctx)
}

func (s *chatSteps) postWithoutToken(ctx context.Context) error {
	return s.tc.PostWithoutToken(ctx)
}

func (s *chatSteps) replyContains(_ context.Context, want string) error {
	if got := s.tc.LastReply(); !strings.Contains(got, want) {
		return fmt.Errorf("expected reply to contain %q, got %q", want, got)
	}
	return nil
}

func (s *chatSteps) replyIs(_ context.Context, want string) error {
	if got := s.tc.LastReply(); got != want {
		return fmt.Errorf("expected reply %q, got %q", want, got)
	}
	return nil
}

func (s *chatSteps) replyCarriesCode(_ context.Context) error {
	for _, line := range strings.Split(s.tc.LastReply(), "\n") {
		if line = strings.TrimSpace(line); strings.HasPrefix(line, "OLEO-") {
			s.deliveryCode = line
			return nil
		}
	}
	return fmt.Errorf("no delivery code in reply %q", s.tc.LastReply())
}

func (s *chatSteps) notified(ctx context.Context, userID int64, want string) error {
	got, err := s.tc.WaitForNotification(ctx, userID)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected notification %q, got %q", want, got)
	}
	return nil
}

func (s *chatSteps) statusIs(_ context.Context, want int) error {
	if got := s.tc.LastStatus(); got != want {
		return fmt.Errorf("expected status %d, got %d", want, got)
	}
	return nil
}
