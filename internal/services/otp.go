package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/cama-app/apiserver/internal/mailer"
)

// ErrDelivery is returned when the mail transport rejects the send.
var ErrDelivery = errors.New("otp delivery failed")

// OTPStore keeps one active code per email.
type OTPStore interface {
	Store(email, code string)
	Fetch(email string) (string, error)
	Delete(email string) error
}

// OTPService issues and verifies single-use email codes. The code
// travels only through the mail transport, never in API responses.
type OTPService struct {
	store  OTPStore
	mailer mailer.Mailer
}

func NewOTPService(store OTPStore, m mailer.Mailer) *OTPService {
	return &OTPService{
		store:  store,
		mailer: m,
	}
}

// Send generates a fresh 6-digit code for the email, overwriting any
// prior unconsumed code, and dispatches it by mail.
func (s *OTPService) Send(ctx context.Context, email string) error {
	code, err := generateOTP()
	if err != nil {
		return err
	}

	s.store.Store(email, code)

	if err := s.mailer.Send(ctx, email, mailer.OTPSubject(), mailer.OTPBody(code)); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// Verify checks the submitted code. A match consumes the stored code;
// a mismatch leaves it in place for another attempt.
func (s *OTPService) Verify(email, code string) bool {
	stored, err := s.store.Fetch(email)
	if err != nil || stored != code {
		return false
	}
	_ = s.store.Delete(email)
	return true
}

// generateOTP draws a uniformly random code in [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
