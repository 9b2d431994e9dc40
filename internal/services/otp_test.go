package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/cama-app/apiserver/internal/store"
)

type mailerMock struct {
	to      string
	subject string
	body    string
	sends   int
	err     error
}

func (m *mailerMock) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.subject = subject
	m.body = body
	m.sends++
	return nil
}

var otpPattern = regexp.MustCompile(`\b\d{6}\b`)

func sentCode(t *testing.T, m *mailerMock) string {
	t.Helper()
	code := otpPattern.FindString(m.body)
	if code == "" {
		t.Fatalf("no six-digit code in mail body: %q", m.body)
	}
	return code
}

func TestOTPSendAndVerify(t *testing.T) {
	mail := &mailerMock{}
	service := NewOTPService(store.NewMemoryOTPStore(0), mail)

	if err := service.Send(context.Background(), "resident@example.com"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if mail.to != "resident@example.com" {
		t.Fatalf("mail sent to %s", mail.to)
	}

	code := sentCode(t, mail)
	if !service.Verify("resident@example.com", code) {
		t.Fatal("correct code rejected")
	}

	// A match consumes the code.
	if service.Verify("resident@example.com", code) {
		t.Fatal("code accepted twice")
	}
}

func TestOTPWrongCodeDoesNotConsume(t *testing.T) {
	mail := &mailerMock{}
	service := NewOTPService(store.NewMemoryOTPStore(0), mail)

	if err := service.Send(context.Background(), "resident@example.com"); err != nil {
		t.Fatalf("send: %v", err)
	}
	code := sentCode(t, mail)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if service.Verify("resident@example.com", wrong) {
		t.Fatal("wrong code accepted")
	}
	if !service.Verify("resident@example.com", code) {
		t.Fatal("correct code rejected after a failed attempt")
	}
}

func TestOTPResendReplacesCode(t *testing.T) {
	mail := &mailerMock{}
	service := NewOTPService(store.NewMemoryOTPStore(0), mail)

	if err := service.Send(context.Background(), "resident@example.com"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	first := sentCode(t, mail)

	if err := service.Send(context.Background(), "resident@example.com"); err != nil {
		t.Fatalf("second send: %v", err)
	}
	second := sentCode(t, mail)
	if mail.sends != 2 {
		t.Fatalf("expected 2 mails, got %d", mail.sends)
	}

	if first != second && service.Verify("resident@example.com", first) {
		t.Fatal("stale code accepted after resend")
	}
	if !service.Verify("resident@example.com", second) {
		t.Fatal("latest code rejected")
	}
}

func TestOTPDeliveryFailure(t *testing.T) {
	mail := &mailerMock{err: errors.New("smtp refused")}
	service := NewOTPService(store.NewMemoryOTPStore(0), mail)

	err := service.Send(context.Background(), "resident@example.com")
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	if !strings.Contains(err.Error(), "smtp refused") {
		t.Fatalf("transport error not wrapped: %v", err)
	}
}

func TestOTPVerifyUnknownEmail(t *testing.T) {
	service := NewOTPService(store.NewMemoryOTPStore(0), &mailerMock{})
	if service.Verify("nobody@example.com", "123456") {
		t.Fatal("verify succeeded without a stored code")
	}
}
