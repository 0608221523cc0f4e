package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"heavenlist/config"
	"heavenlist/internal/auth"
	"heavenlist/internal/domain"
	"heavenlist/internal/models"
	"heavenlist/internal/otp"
	"heavenlist/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrNotVerified  = errors.New("email not verified")
	ErrInvalidOTP   = errors.New("invalid or expired code")
	ErrUnknownRole  = errors.New("unknown role")
)

// principal is the slice of actor state the OTP scan needs; the three actor
// tables stay independent.
type principal struct {
	ID    uint
	Name  string
	Email string
}

type AuthService struct {
	cfg          *config.Config
	tenantRepo   *repository.TenantRepository
	landlordRepo *repository.LandlordRepository
	adminRepo    *repository.AdminRepository
	mail         Mailer
}

// Mailer is satisfied by pkg/mailer; narrowed here so tests can fake it.
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, html string) error
}

func NewAuthService(cfg *config.Config, tenantRepo *repository.TenantRepository, landlordRepo *repository.LandlordRepository, adminRepo *repository.AdminRepository, mail Mailer) *AuthService {
	return &AuthService{cfg: cfg, tenantRepo: tenantRepo, landlordRepo: landlordRepo, adminRepo: adminRepo, mail: mail}
}

// otpStep returns the role's OTP window width: admins get the tighter window.
func (s *AuthService) otpStep(role string) time.Duration {
	if role == domain.RoleAdmin {
		return s.cfg.OTP.AdminStep
	}
	return s.cfg.OTP.TenantStep
}

func (s *AuthService) RegisterTenant(fullName, email, password string) (*models.Tenant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.tenantRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	t := &models.Tenant{FullName: fullName, Email: email, PasswordHash: string(hash)}
	if err := s.tenantRepo.Create(t); err != nil {
		return nil, err
	}
	s.sendOTPEmail(domain.RoleTenant, email, fullName, "Verify your HeavenList account")
	return t, nil
}

func (s *AuthService) RegisterLandlord(fullName, email, password string) (*models.Landlord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.landlordRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	l := &models.Landlord{FullName: fullName, Email: email, PasswordHash: string(hash)}
	if err := s.landlordRepo.Create(l); err != nil {
		return nil, err
	}
	s.sendOTPEmail(domain.RoleLandlord, email, fullName, "Verify your HeavenList account")
	return l, nil
}

// VerifyEmail marks the principal whose current OTP matches as verified. The
// code carries no identifier, so every principal of the role is tried.
func (s *AuthService) VerifyEmail(role, code string) error {
	p, err := s.findByOTP(role, code)
	if err != nil {
		return err
	}
	switch role {
	case domain.RoleTenant:
		t, err := s.tenantRepo.GetByID(p.ID)
		if err != nil {
			return err
		}
		t.IsVerified = true
		return s.tenantRepo.Update(t)
	case domain.RoleLandlord:
		l, err := s.landlordRepo.GetByID(p.ID)
		if err != nil {
			return err
		}
		l.IsVerified = true
		return s.landlordRepo.Update(l)
	default:
		return ErrUnknownRole
	}
}

// Login authenticates a principal of the given role and marks the session open.
func (s *AuthService) Login(role, email, password string) (uint, string, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	id, name, hash, verified, err := s.credentials(role, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", "", "", ErrInvalidCreds
		}
		return 0, "", "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return 0, "", "", "", ErrInvalidCreds
	}
	if !verified {
		return 0, "", "", "", ErrNotVerified
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, id, email, role)
	if err != nil {
		return 0, "", "", "", err
	}
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, id, role)
	s.setLoggedIn(role, id, true)
	return id, name, access, refresh, nil
}

func (s *AuthService) Logout(role string, id uint) error {
	return s.setLoggedIn(role, id, false)
}

// LoginWithGoogle finds or creates a tenant by Google ID. Google accounts are
// trusted as verified.
func (s *AuthService) LoginWithGoogle(googleID, email, name string) (*models.Tenant, string, string, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	t, err := s.tenantRepo.GetByGoogleID(googleID)
	if err == nil {
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, t.ID, t.Email, domain.RoleTenant)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, t.ID, domain.RoleTenant)
		s.setLoggedIn(domain.RoleTenant, t.ID, true)
		return t, access, refresh, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}
	if existing, err := s.tenantRepo.GetByEmail(email); err == nil {
		gid := googleID
		existing.GoogleID = &gid
		existing.IsVerified = true
		if err := s.tenantRepo.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, existing.ID, existing.Email, domain.RoleTenant)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, existing.ID, domain.RoleTenant)
		s.setLoggedIn(domain.RoleTenant, existing.ID, true)
		return existing, access, refresh, false, nil
	}
	gid := googleID
	t = &models.Tenant{FullName: name, Email: email, GoogleID: &gid, IsVerified: true}
	if err := s.tenantRepo.Create(t); err != nil {
		return nil, "", "", false, err
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, t.ID, t.Email, domain.RoleTenant)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, t.ID, domain.RoleTenant)
	s.setLoggedIn(domain.RoleTenant, t.ID, true)
	return t, access, refresh, true, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// principal must still exist; its current email goes into the new claims.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	role, id, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", err
	}
	var email string
	switch role {
	case domain.RoleTenant:
		t, err := s.tenantRepo.GetByID(id)
		if err != nil {
			return "", auth.ErrInvalidToken
		}
		email = t.Email
	case domain.RoleLandlord:
		l, err := s.landlordRepo.GetByID(id)
		if err != nil {
			return "", auth.ErrInvalidToken
		}
		email = l.Email
	case domain.RoleAdmin:
		a, err := s.adminRepo.GetByID(id)
		if err != nil {
			return "", auth.ErrInvalidToken
		}
		email = a.Email
	default:
		return "", ErrUnknownRole
	}
	return auth.GenerateAccessToken(&s.cfg.JWT, id, email, role)
}

// ForgotPassword emails the current OTP to the account, if it exists. Always
// succeeds from the caller's view so addresses cannot be enumerated.
func (s *AuthService) ForgotPassword(role, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, name, _, _, err := s.credentials(role, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	s.sendOTPEmail(role, email, name, "Your HeavenList password reset code")
	return nil
}

// VerifyResetOTP resolves the submitted code to a principal and issues the
// short-lived reset token that authorizes the subsequent password change.
func (s *AuthService) VerifyResetOTP(role, code string) (string, error) {
	p, err := s.findByOTP(role, code)
	if err != nil {
		return "", err
	}
	return auth.GenerateResetToken(&s.cfg.JWT, p.ID, p.Email, role)
}

// ResetPassword consumes a reset token and writes the new password hash.
func (s *AuthService) ResetPassword(resetToken, newPassword string) error {
	claims, err := auth.ParseResetToken(&s.cfg.JWT, resetToken)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	switch claims.Role {
	case domain.RoleTenant:
		return s.tenantRepo.UpdatePassword(claims.UserID, string(hash))
	case domain.RoleLandlord:
		return s.landlordRepo.UpdatePassword(claims.UserID, string(hash))
	case domain.RoleAdmin:
		return s.adminRepo.UpdatePassword(claims.UserID, string(hash))
	}
	return ErrUnknownRole
}

// ChangePassword updates the password of an authenticated principal after
// checking the current one.
func (s *AuthService) ChangePassword(role string, id uint, currentPassword, newPassword string) error {
	var currentHash string
	switch role {
	case domain.RoleTenant:
		t, err := s.tenantRepo.GetByID(id)
		if err != nil {
			return ErrInvalidCreds
		}
		currentHash = t.PasswordHash
	case domain.RoleLandlord:
		l, err := s.landlordRepo.GetByID(id)
		if err != nil {
			return ErrInvalidCreds
		}
		currentHash = l.PasswordHash
	case domain.RoleAdmin:
		a, err := s.adminRepo.GetByID(id)
		if err != nil {
			return ErrInvalidCreds
		}
		currentHash = a.PasswordHash
	default:
		return ErrUnknownRole
	}
	if bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(currentPassword)) != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	switch role {
	case domain.RoleTenant:
		return s.tenantRepo.UpdatePassword(id, string(hash))
	case domain.RoleLandlord:
		return s.landlordRepo.UpdatePassword(id, string(hash))
	default:
		return s.adminRepo.UpdatePassword(id, string(hash))
	}
}

// findByOTP tries every principal of the role against the submitted code.
// The scan is linear on purpose: the code does not identify its owner.
func (s *AuthService) findByOTP(role, code string) (*principal, error) {
	principals, err := s.principals(role)
	if err != nil {
		return nil, err
	}
	step := s.otpStep(role)
	for i := range principals {
		p := &principals[i]
		if otp.Check(code, s.cfg.OTP.Seed, p.Email, step, s.cfg.OTP.Digits, s.cfg.OTP.Skew) {
			return p, nil
		}
	}
	return nil, ErrInvalidOTP
}

func (s *AuthService) principals(role string) ([]principal, error) {
	switch role {
	case domain.RoleTenant:
		tenants, err := s.tenantRepo.ListAll()
		if err != nil {
			return nil, err
		}
		out := make([]principal, len(tenants))
		for i, t := range tenants {
			out[i] = principal{ID: t.ID, Name: t.FullName, Email: t.Email}
		}
		return out, nil
	case domain.RoleLandlord:
		landlords, err := s.landlordRepo.ListAll()
		if err != nil {
			return nil, err
		}
		out := make([]principal, len(landlords))
		for i, l := range landlords {
			out[i] = principal{ID: l.ID, Name: l.FullName, Email: l.Email}
		}
		return out, nil
	case domain.RoleAdmin:
		admins, err := s.adminRepo.ListAll()
		if err != nil {
			return nil, err
		}
		out := make([]principal, len(admins))
		for i, a := range admins {
			out[i] = principal{ID: a.ID, Name: a.FullName, Email: a.Email}
		}
		return out, nil
	}
	return nil, ErrUnknownRole
}

func (s *AuthService) credentials(role, email string) (id uint, name, hash string, verified bool, err error) {
	switch role {
	case domain.RoleTenant:
		t, e := s.tenantRepo.GetByEmail(email)
		if e != nil {
			return 0, "", "", false, e
		}
		return t.ID, t.FullName, t.PasswordHash, t.IsVerified, nil
	case domain.RoleLandlord:
		l, e := s.landlordRepo.GetByEmail(email)
		if e != nil {
			return 0, "", "", false, e
		}
		return l.ID, l.FullName, l.PasswordHash, l.IsVerified, nil
	case domain.RoleAdmin:
		a, e := s.adminRepo.GetByEmail(email)
		if e != nil {
			return 0, "", "", false, e
		}
		return a.ID, a.FullName, a.PasswordHash, a.IsVerified, nil
	}
	return 0, "", "", false, ErrUnknownRole
}

func (s *AuthService) setLoggedIn(role string, id uint, loggedIn bool) error {
	switch role {
	case domain.RoleTenant:
		return s.tenantRepo.SetLoggedIn(id, loggedIn)
	case domain.RoleLandlord:
		return s.landlordRepo.SetLoggedIn(id, loggedIn)
	case domain.RoleAdmin:
		return s.adminRepo.SetLoggedIn(id, loggedIn)
	}
	return ErrUnknownRole
}

func (s *AuthService) sendOTPEmail(role, email, name, subject string) {
	if s.mail == nil {
		return
	}
	code, err := otp.Generate(s.cfg.OTP.Seed, email, s.otpStep(role), s.cfg.OTP.Digits)
	if err != nil {
		log.Printf("[auth] otp generate for %s: %v", email, err)
		return
	}
	minutes := int(s.otpStep(role).Minutes())
	html := fmt.Sprintf("<p>Hello %s,</p><p>Your code is <b>%s</b>. It expires in about %d minutes.</p>", name, code, minutes)
	if err := s.mail.Send(context.Background(), email, name, subject, html); err != nil {
		log.Printf("[auth] otp email to %s: %v", email, err)
	}
}
