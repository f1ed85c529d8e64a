// Package grpc exposes the authentication flows over gRPC and owns the
// translation from service errors to wire statuses.
package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ledgerauth/internal/common"
	"ledgerauth/internal/logging"
	"ledgerauth/internal/rpcapi"
	"ledgerauth/internal/server/services"
)

// AuthService is the slice of the authentication service the transport
// needs.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UpdatePassword(ctx context.Context, accessToken, oldPassword, newPassword string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) (int64, error)
}

// AuthenticationHandler implements rpcapi.AuthenticationServer on top of
// the authentication service.
type AuthenticationHandler struct {
	rpcapi.UnimplementedAuthenticationServer
	service AuthService
	logger  logging.Logger
}

func NewAuthenticationHandler(service AuthService, logger logging.Logger) *AuthenticationHandler {
	return &AuthenticationHandler{service: service, logger: logger.With("module", "grpc")}
}

func (h *AuthenticationHandler) Login(ctx context.Context, req *rpcapi.LoginRequest) (*rpcapi.TokenResponse, error) {
	pair, err := h.service.Login(ctx, req.GetEmail(), req.GetPassword())
	if err != nil {
		return nil, statusFromError(err)
	}
	return tokenResponse(pair), nil
}

func (h *AuthenticationHandler) Refresh(ctx context.Context, req *rpcapi.RefreshRequest) (*rpcapi.TokenResponse, error) {
	pair, err := h.service.Refresh(ctx, req.GetRefreshToken())
	if err != nil {
		return nil, statusFromError(err)
	}
	return tokenResponse(pair), nil
}

func (h *AuthenticationHandler) UpdatePassword(ctx context.Context, req *rpcapi.UpdatePasswordRequest) (*rpcapi.TokenResponse, error) {
	accessToken, ok := AccessTokenFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	pair, err := h.service.UpdatePassword(ctx, accessToken, req.GetPasswordOriginal(), req.GetPasswordNew())
	if err != nil {
		return nil, statusFromError(err)
	}
	return tokenResponse(pair), nil
}

func (h *AuthenticationHandler) Logout(ctx context.Context, req *rpcapi.LogoutRequest) (*rpcapi.LogoutResponse, error) {
	rows, err := h.service.Logout(ctx, req.GetRefreshToken())
	if err != nil {
		return nil, statusFromError(err)
	}
	return &rpcapi.LogoutResponse{RowsAffected: rows}, nil
}

// Register is reserved; self-service signup is handled out of band.
func (h *AuthenticationHandler) Register(ctx context.Context, req *rpcapi.RegisterRequest) (*rpcapi.TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

// ResetPassword is reserved until a mail channel exists.
func (h *AuthenticationHandler) ResetPassword(ctx context.Context, req *rpcapi.ResetPasswordRequest) (*rpcapi.ResetPasswordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetPassword not implemented")
}

func tokenResponse(pair *services.TokenPair) *rpcapi.TokenResponse {
	return &rpcapi.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

// statusFromError maps every service error to a wire status with a fixed
// message. Identity failures of any cause come out as a single
// UNAUTHENTICATED shape so callers cannot probe which check failed.
func statusFromError(err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, "invalid request")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenSignatureInvalid),
		errors.Is(err, common.ErrTokenIssuerInvalid),
		errors.Is(err, common.ErrTokenTypeInvalid),
		errors.Is(err, common.ErrTokenMalformed):
		return status.Error(codes.Unauthenticated, "authentication failed")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
