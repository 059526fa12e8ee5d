package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/templui/smsgoals/internal/model"
	"github.com/templui/smsgoals/internal/repository"
	"github.com/templui/smsgoals/internal/validation"
)

var (
	ErrMissingField = errors.New("phone number and emergency contact are required")
	ErrInvalidPhone = errors.New("invalid phone number")
)

type UserService struct {
	userRepository repository.UserRepository
	notifier       *Notifier
	clock          Clock
}

func NewUserService(userRepository repository.UserRepository, notifier *Notifier, clock Clock) *UserService {
	return &UserService{
		userRepository: userRepository,
		notifier:       notifier,
		clock:          clock,
	}
}

// Register creates a user with no response history and sends the welcome
// text. A failed welcome text does not undo the registration.
func (s *UserService) Register(ctx context.Context, phoneNumber, emergencyContact string) (*model.User, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	emergencyContact = strings.TrimSpace(emergencyContact)
	if phoneNumber == "" || emergencyContact == "" {
		return nil, ErrMissingField
	}

	phone, err := validation.NormalizePhone(phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	contact, err := validation.NormalizePhone(emergencyContact)
	if err != nil {
		return nil, fmt.Errorf("%w: emergency contact: %v", ErrInvalidPhone, err)
	}

	user := &model.User{
		PhoneNumber:      phone,
		EmergencyContact: contact,
		CreatedAt:        s.clock.Now().UTC(),
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "phone", phone)

	if err := s.notifier.Notify(ctx, phone, welcomeMessage()); err != nil {
		slog.Warn("welcome sms not delivered", "phone", phone, "error", err)
	}

	return user, nil
}

// canonicalPhone maps an inbound sender to the stored form, keeping the raw
// value when it cannot be parsed.
func canonicalPhone(phoneNumber string) string {
	phone, err := validation.NormalizePhone(phoneNumber)
	if err != nil {
		return strings.TrimSpace(phoneNumber)
	}
	return phone
}

