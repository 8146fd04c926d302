package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spc-registrar/portal-api/internal/models"
	"github.com/spc-registrar/portal-api/internal/store"
	appErrors "github.com/spc-registrar/portal-api/pkg/errors"
)

type verificationClient interface {
	SendVerificationCode(ctx context.Context, email string) error
	VerifyEmailCode(ctx context.Context, email, code string) (bool, error)
	CheckVerification(ctx context.Context, email string) (bool, error)
}

// Flow drives the email verification sub-machine: unverified → code sent →
// verified. Verified addresses are remembered in the injected store so a
// returning requester skips re-verification.
type Flow struct {
	client   verificationClient
	store    store.Store
	cooldown time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// FlowConfig tunes the resend cooldown.
type FlowConfig struct {
	ResendCooldown time.Duration
}

// NewFlow constructs a Flow.
func NewFlow(client verificationClient, kv store.Store, logger *zap.Logger, cfg FlowConfig) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	cooldown := cfg.ResendCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Flow{
		client:   client,
		store:    kv,
		cooldown: cooldown,
		logger:   logger,
		now:      time.Now,
	}
}

func verifiedKey(email string) string {
	return "emailVerified:" + strings.ToLower(strings.TrimSpace(email))
}

// Send dispatches a verification code for the given address. Requests inside
// the resend cooldown are rejected locally, without an upstream call.
func (f *Flow) Send(ctx context.Context, state *models.VerificationState, email string) error {
	if state.Verified(email) {
		return appErrors.Clone(appErrors.ErrValidation, "email address is already verified")
	}

	if !state.LastSentAt.IsZero() && state.Email == email {
		elapsed := f.now().Sub(state.LastSentAt)
		if elapsed < f.cooldown {
			remaining := int((f.cooldown - elapsed).Round(time.Second).Seconds())
			if remaining < 1 {
				remaining = 1
			}
			return appErrors.Clone(appErrors.ErrVerificationCooldown,
				fmt.Sprintf("please wait %d seconds before requesting another code", remaining))
		}
	}

	if err := f.client.SendVerificationCode(ctx, email); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status,
			"could not send verification code; please try again")
	}

	state.Stage = models.VerificationCodeSent
	state.Email = email
	state.LastSentAt = f.now()
	return nil
}

// Verify checks the submitted code. On success the address is marked
// verified both in the session state and in the persistent store.
func (f *Flow) Verify(ctx context.Context, state *models.VerificationState, email, code string) error {
	ok, err := f.client.VerifyEmailCode(ctx, email, code)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status,
			"could not verify the code; please try again")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "invalid or expired verification code")
	}

	state.Stage = models.VerificationVerified
	state.Email = email
	if err := f.store.Set(ctx, verifiedKey(email), "true", 0); err != nil {
		f.logger.Warn("could not persist verified flag", zap.Error(err))
	}
	return nil
}

// EmailChanged resets the machine for a new address, then re-establishes the
// status: first from the persistent flag, then from the registrar system.
func (f *Flow) EmailChanged(ctx context.Context, state *models.VerificationState, email string) {
	state.Stage = models.VerificationUnverified
	state.Email = email
	state.LastSentAt = time.Time{}

	if email == "" {
		return
	}

	if value, err := f.store.Get(ctx, verifiedKey(email)); err == nil && value == "true" {
		state.Stage = models.VerificationVerified
		return
	}

	verified, err := f.client.CheckVerification(ctx, email)
	if err != nil {
		f.logger.Warn("verification status check failed", zap.String("email", email), zap.Error(err))
		return
	}
	if verified {
		state.Stage = models.VerificationVerified
		if err := f.store.Set(ctx, verifiedKey(email), "true", 0); err != nil {
			f.logger.Warn("could not persist verified flag", zap.Error(err))
		}
	}
}
