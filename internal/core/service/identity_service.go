package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

const (
	defaultCodeTTL = 5 * time.Minute
	smsTemplateOTP = "otp-login"
)

// IdentityConfig tunes the one-time code flow.
type IdentityConfig struct {
	CodeTTL time.Duration
	// EchoCode returns the generated code to the caller. Development only.
	EchoCode bool
}

// IdentityService implements phone login, registration and verification.
type IdentityService struct {
	users    ports.UserRepository
	codes    ports.CodeStore
	tokens   ports.TokenManager
	notifier ports.Notifier
	cfg      IdentityConfig
	log      zerolog.Logger

	hashCost int
	now      func() time.Time
}

func NewIdentityService(
	users ports.UserRepository,
	codes ports.CodeStore,
	tokens ports.TokenManager,
	notifier ports.Notifier,
	cfg IdentityConfig,
	log zerolog.Logger,
) *IdentityService {
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = defaultCodeTTL
	}
	return &IdentityService{
		users:    users,
		codes:    codes,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

var _ ports.IdentityService = (*IdentityService)(nil)

// RequestCode generates a code for phone and hands it to the SMS pipeline.
func (s *IdentityService) RequestCode(ctx context.Context, in ports.RequestCodeInput) (*ports.CodeRequestResult, error) {
	phone := NormalizePhone(in.Phone)
	if phone == "" {
		return nil, domain.ErrInvalidPhone
	}
	intent := ports.Intent(strings.ToUpper(strings.TrimSpace(string(in.Intent))))
	if intent != ports.IntentLogin && intent != ports.IntentRegister {
		return nil, domain.ErrInvalidIntent
	}

	exists, err := s.phoneRegistered(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("request code: %w", err)
	}
	if intent == ports.IntentLogin && !exists {
		return nil, domain.ErrAccountNotFound
	}
	if intent == ports.IntentRegister && exists {
		return nil, domain.ErrAccountAlreadyExists
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("request code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("request code: hash: %w", err)
	}
	if err := s.codes.Save(ctx, phone, string(hash), s.cfg.CodeTTL); err != nil {
		return nil, fmt.Errorf("request code: store: %w", err)
	}

	if err := s.notifier.Publish(ctx, ports.Notification{
		ID:      uuid.NewString(),
		Kind:    ports.NotifySMSCode,
		Key:     phone,
		Payload: ports.SMSCodeMessage{To: phone, TemplateID: smsTemplateOTP, Code: code},
	}); err != nil {
		s.log.Warn().Err(err).Str("phone", maskPhone(phone)).Msg("failed to publish sms code")
	}

	s.log.Info().Str("phone", maskPhone(phone)).Str("intent", string(intent)).Msg("login code issued")

	res := &ports.CodeRequestResult{Phone: phone, ExpiresAt: s.now().UTC().Add(s.cfg.CodeTTL)}
	if s.cfg.EchoCode {
		res.DevCode = code
	}
	return res, nil
}

// VerifyCode consumes the pending code and logs the user in, registering the
// account first when a role is supplied for an unknown phone.
func (s *IdentityService) VerifyCode(ctx context.Context, in ports.VerifyCodeInput) (*ports.AuthResult, error) {
	phone := NormalizePhone(in.Phone)
	code := strings.TrimSpace(in.Code)
	if phone == "" || code == "" {
		return nil, domain.ErrInvalidOrExpiredCode
	}

	// The pending code is gone after this call whether or not it matches.
	hash, err := s.codes.Consume(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrExpiredCode) {
			return nil, err
		}
		return nil, fmt.Errorf("verify code: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		s.log.Info().Str("phone", maskPhone(phone)).Msg("code mismatch")
		return nil, domain.ErrInvalidOrExpiredCode
	}

	user, err := s.users.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		return s.session(user, false)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("verify code: %w", err)
	}

	if strings.TrimSpace(in.Role) == "" {
		return nil, domain.ErrAccountNotFound
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reg := in.Registration
	user = &domain.User{
		ID:                 domain.NewID(domain.PrefixUser),
		Role:               role,
		Phone:              phone,
		Name:               strings.TrimSpace(reg.Name),
		DocumentNumber:     strings.TrimSpace(reg.DocumentNumber),
		BirthDate:          strings.TrimSpace(reg.BirthDate),
		AvatarRef:          strings.TrimSpace(reg.AvatarRef),
		IdentityDocRef:     strings.TrimSpace(reg.IdentityDocRef),
		IdentityDocExpiry:  strings.TrimSpace(reg.IdentityDocExpiry),
		VerificationStatus: domain.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if role == domain.RoleProfessional {
		user.LicenseNumber = strings.TrimSpace(reg.LicenseNumber)
		user.LicenseDocRef = strings.TrimSpace(reg.LicenseDocRef)
		user.LicenseExpiry = strings.TrimSpace(reg.LicenseExpiry)
		user.Specialty = strings.TrimSpace(reg.Specialty)
	}
	user.RefreshVerification()

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("verify code: create user: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Str("verification", string(user.VerificationStatus)).
		Msg("account registered")

	return s.session(user, true)
}

func (s *IdentityService) session(u *domain.User, registered bool) (*ports.AuthResult, error) {
	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{User: u, Token: token, ExpiresAt: exp, Registered: registered}, nil
}

func (s *IdentityService) ResolveActor(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return u, nil
}

// UpdateProfile merges owner edits and recomputes the verification status.
func (s *IdentityService) UpdateProfile(ctx context.Context, actor *domain.User, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if actor == nil || actor.ID != userID {
		return nil, domain.ErrNotResourceOwner
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if update.Phone != nil {
		phone := NormalizePhone(*update.Phone)
		if phone == "" {
			return nil, domain.ErrInvalidPhone
		}
		if phone != u.Phone {
			taken, err := s.phoneRegistered(ctx, phone)
			if err != nil {
				return nil, fmt.Errorf("update profile: %w", err)
			}
			if taken {
				return nil, domain.ErrAccountAlreadyExists
			}
		}
		update.Phone = &phone
	}

	before := u.VerificationStatus
	expected := u.Version
	update.Apply(u)
	u.RefreshVerification()
	u.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, u, expected); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if before != u.VerificationStatus {
		s.log.Info().
			Str("user_id", u.ID).
			Str("from", string(before)).
			Str("to", string(u.VerificationStatus)).
			Msg("verification status changed")
	}
	return u, nil
}

// ReviewVerification records the external reviewer's decision.
func (s *IdentityService) ReviewVerification(ctx context.Context, userID string, outcome domain.VerificationStatus, note string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("review verification: %w", err)
	}
	expected := u.Version
	if err := u.Review(outcome); err != nil {
		return nil, fmt.Errorf("review verification: %w (from %s to %s)", err, u.VerificationStatus, outcome)
	}
	u.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, u, expected); err != nil {
		return nil, fmt.Errorf("review verification: %w", err)
	}

	s.log.Info().
		Str("user_id", u.ID).
		Str("outcome", string(outcome)).
		Str("note", note).
		Msg("verification reviewed")
	return u, nil
}

func (s *IdentityService) phoneRegistered(ctx context.Context, phone string) (bool, error) {
	_, err := s.users.FindByPhone(ctx, phone)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// NormalizePhone keeps digits and a leading plus sign so that formatted and
// raw inputs map to the same login key.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "+" {
		return ""
	}
	return out
}

// generateCode returns a uniformly distributed six digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
