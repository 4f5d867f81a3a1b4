package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/agkmart/agkmart-backend/internal/pilots"
	pkgAuth "github.com/agkmart/agkmart-backend/pkg/auth"
	"github.com/agkmart/agkmart-backend/pkg/config"
	"github.com/agkmart/agkmart-backend/pkg/db/models"
	"github.com/agkmart/agkmart-backend/pkg/enums"
	pkgerrors "github.com/agkmart/agkmart-backend/pkg/errors"
	"github.com/agkmart/agkmart-backend/pkg/logger"
	"github.com/agkmart/agkmart-backend/pkg/metrics"
	"github.com/agkmart/agkmart-backend/pkg/outbox"
	"github.com/agkmart/agkmart-backend/pkg/redis"
	"github.com/agkmart/agkmart-backend/pkg/security"
	"github.com/agkmart/agkmart-backend/pkg/sms"
)

// noAccountMessage is returned for unknown numbers AND for pilots that are
// not yet approved, so login responses never leak approval state.
const noAccountMessage = "no pilot account found for this number"

// Service defines the behavior needed by the login controller.
type Service interface {
	RequestOTP(ctx context.Context, input RequestOTPInput) (*OTPChallenge, error)
	VerifyOTP(ctx context.Context, input VerifyOTPInput) (*LoginResult, error)
}

type pilotFinder interface {
	FindByPhone(ctx context.Context, phone string) (*models.Pilot, error)
}

type otpStore interface {
	StoreOTP(ctx context.Context, phone, code string, ttl time.Duration) error
	ConsumeOTP(ctx context.Context, phone string) (string, error)
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	pilots  pilotFinder
	otps    otpStore
	limiter rateLimiter
	sender  sms.Sender
	tx      txRunner
	outbox  outboxPublisher
	metrics *metrics.DeliveryMetrics
	logg    *logger.Logger
	jwtCfg  config.JWTConfig
	otpCfg  config.OTPConfig
	limits  config.AuthRateLimitConfig
	devMode bool
}

// ServiceParams bundles the dependencies required to build the identity
// service. Metrics and Logger are optional.
type ServiceParams struct {
	Pilots    pilotFinder
	OTPStore  otpStore
	Limiter   rateLimiter
	SMSSender sms.Sender
	TxRunner  txRunner
	Outbox    outboxPublisher
	Metrics   *metrics.DeliveryMetrics
	Logger    *logger.Logger
	JWTConfig config.JWTConfig
	OTPConfig config.OTPConfig
	Limits    config.AuthRateLimitConfig
	DevMode   bool
}

// NewService constructs an OTP login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Pilots == nil {
		return nil, fmt.Errorf("pilot finder is required")
	}
	if params.OTPStore == nil {
		return nil, fmt.Errorf("otp store is required")
	}
	if params.SMSSender == nil {
		return nil, fmt.Errorf("sms sender is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	return &service{
		pilots:  params.Pilots,
		otps:    params.OTPStore,
		limiter: params.Limiter,
		sender:  params.SMSSender,
		tx:      params.TxRunner,
		outbox:  params.Outbox,
		metrics: params.Metrics,
		logg:    params.Logger,
		jwtCfg:  params.JWTConfig,
		otpCfg:  params.OTPConfig,
		limits:  params.Limits,
		devMode: params.DevMode,
	}, nil
}

func (s *service) RequestOTP(ctx context.Context, input RequestOTPInput) (*OTPChallenge, error) {
	phone := strings.TrimSpace(input.Phone)
	if !pilots.ValidPhone(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must be a valid 10-digit mobile number")
	}

	if err := s.allowRequest(ctx, phone); err != nil {
		return nil, err
	}

	pilot, err := s.eligiblePilot(ctx, phone)
	if err != nil {
		return nil, err
	}

	code, err := security.GenerateOTP(s.otpCfg.Digits)
	if err != nil {
		s.failOTP("login")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	if err := s.otps.StoreOTP(ctx, phone, code, s.otpCfg.TTL); err != nil {
		s.failOTP("login")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp challenge")
	}

	expiresAt := time.Now().Add(s.otpCfg.TTL)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOTPRequested,
			AggregateType: enums.AggregatePilot,
			AggregateID:   pilot.ID,
			Actor:         &outbox.ActorRef{ActorID: pilot.ID, Role: string(enums.ActorRolePilot)},
			Data: OTPRequestedEvent{
				PilotID:   pilot.ID,
				Phone:     pilot.Phone,
				ExpiresAt: expiresAt,
			},
		})
	})
	if err != nil {
		s.failOTP("login")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record otp request")
	}

	// SMS dispatch is fire-and-forget: the challenge is already stored, so a
	// transport failure is logged and the request still succeeds.
	body := fmt.Sprintf(s.otpCfg.SMSTemplate, code)
	if err := s.sender.Send(ctx, phone, body); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithPilotID(ctx, pilot.PilotID()), "otp sms dispatch failed", err)
	}

	if s.metrics != nil {
		s.metrics.IncOTPIssued("login")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithPilotID(ctx, pilot.PilotID()), "login otp issued")
	}

	challenge := &OTPChallenge{
		Phone:            phone,
		ExpiresInSeconds: int(s.otpCfg.TTL / time.Second),
	}
	if s.devMode && s.otpCfg.EchoInDev {
		challenge.OTP = code
	}
	return challenge, nil
}

func (s *service) VerifyOTP(ctx context.Context, input VerifyOTPInput) (*LoginResult, error) {
	phone := strings.TrimSpace(input.Phone)
	code := strings.TrimSpace(input.OTP)
	if !pilots.ValidPhone(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must be a valid 10-digit mobile number")
	}
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "otp is required")
	}

	pilot, err := s.eligiblePilot(ctx, phone)
	if err != nil {
		return nil, err
	}

	stored, err := s.otps.ConsumeOTP(ctx, phone)
	if err != nil {
		if redis.IsNil(err) {
			s.failOTP("login")
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "otp expired or was never requested")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume otp challenge")
	}
	if stored != code {
		// The fetch above already deleted the challenge, so a mismatch burns
		// it and the pilot has to request a fresh code.
		s.failOTP("login")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect otp")
	}

	now := time.Now()
	token, err := pkgAuth.MintSessionToken(s.jwtCfg, now, pkgAuth.SessionTokenPayload{
		SubjectID: pilot.ID,
		Role:      enums.ActorRolePilot,
		Phone:     pilot.Phone,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithPilotID(ctx, pilot.PilotID()), "pilot logged in")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.SessionTTL()),
		Pilot:     pilots.ProfileFromModel(pilot),
	}, nil
}

// eligiblePilot loads the pilot behind a phone number and masks every
// ineligible state as not-found.
func (s *service) eligiblePilot(ctx context.Context, phone string) (*models.Pilot, error) {
	pilot, err := s.pilots.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, noAccountMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup pilot by phone")
	}
	if pilot.Status != enums.PilotStatusApproved || !pilot.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, noAccountMessage)
	}
	return pilot, nil
}

func (s *service) allowRequest(ctx context.Context, phone string) error {
	if s.limiter == nil {
		return nil
	}
	allowed, _, err := s.limiter.FixedWindowAllow(ctx, "otp:phone:"+phone, int64(s.limits.OTPPhoneLimit), s.limits.OTPWindow)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "otp rate limit check")
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many otp requests, try again shortly")
	}
	return nil
}

func (s *service) failOTP(purpose string) {
	if s.metrics != nil {
		s.metrics.IncOTPFailed(purpose)
	}
}
