package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"quickcart/internal/api"
	"quickcart/internal/model"
	"quickcart/internal/store"
)

var otpPattern = regexp.MustCompile(`^\d{4,6}$`)

// Servicio que valida sesiones contra el backend de QuickCart.
type AuthService struct {
	api   *api.Client
	store store.Store
	log   *zap.Logger
}

func NewAuthService(client *api.Client, st store.Store, log *zap.Logger) *AuthService {
	return &AuthService{api: client, store: st, log: log}
}

func (a *AuthService) SendOTP(ctx context.Context, phone string) error {
	if err := checkPhone(phone); err != nil {
		return err
	}
	return upstream(a.api.SendOTP(ctx, normalizePhone(phone)), nil)
}

// VerifyOTP intercambia teléfono + OTP por un token y guarda la sesión.
func (a *AuthService) VerifyOTP(ctx context.Context, phone, otp string) (*api.Session, error) {
	if err := checkPhone(phone); err != nil {
		return nil, err
	}
	if !otpPattern.MatchString(strings.TrimSpace(otp)) {
		return nil, ValidationErrors{{Field: "otp", Message: "must be a 4 to 6 digit code"}}
	}

	p := normalizePhone(phone)
	session, err := a.api.VerifyOTP(ctx, p, strings.TrimSpace(otp))
	if err != nil {
		if rejected(err) {
			return nil, ErrUnauthorized
		}
		return nil, upstream(err, nil)
	}
	if session.Token == "" {
		return nil, ErrUnauthorized
	}
	if session.User.Disabled {
		return nil, ErrUserDisabled
	}

	a.remember(ctx, session.Token, &session.User)
	if err := store.SaveJSON(ctx, a.store, store.Scoped(store.KeyAuthToken, p), session.Token); err != nil {
		a.log.Warn("no se pudo guardar el token", zap.Error(err))
	}
	a.log.Info("sesión iniciada", zap.String("phone", p))
	return session, nil
}

// Valida el token consultando a /users/current. Si el backend no responde
// se acepta el último usuario conocido para ese token.
func (a *AuthService) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	user, err := a.api.CurrentUser(ctx, token)
	switch {
	case err == nil:
		a.remember(ctx, token, user)
	case api.IsUnavailable(err):
		cached, ok := store.LoadJSON[model.User](ctx, a.store, tokenKey(token))
		if !ok {
			return nil, upstream(err, nil)
		}
		a.log.Warn("backend no disponible, usando usuario en caché", zap.String("userId", cached.ID.String()))
		user = &cached
	default:
		return nil, ErrUnauthorized
	}

	if user.Disabled {
		return nil, ErrUserDisabled
	}
	return user, nil
}

func (a *AuthService) remember(ctx context.Context, token string, user *model.User) {
	if err := store.SaveJSON(ctx, a.store, tokenKey(token), user); err != nil {
		a.log.Warn("no se pudo guardar el usuario", zap.Error(err))
	}
}

// tokenKey no guarda el token en claro como parte de la clave.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return store.Scoped(store.KeyCurrentUser, hex.EncodeToString(sum[:]))
}

func checkPhone(phone string) error {
	if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		return ValidationErrors{{Field: "phone", Message: "must be a valid 10-digit mobile number"}}
	}
	return nil
}

// rejected: el backend rechazó las credenciales (4xx de autenticación).
func rejected(err error) bool {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}
