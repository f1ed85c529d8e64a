// Package rpcapi holds the wire types and service bindings for the
// ledgerauth.v1.Authentication gRPC service, maintained by hand in the
// shape protoc-gen-go would produce from authentication.proto. Keep the
// field numbers and names in sync with that file.
package rpcapi

import "fmt"

// LoginRequest carries the credentials for the Login RPC.
type LoginRequest struct {
	Email    string `protobuf:"bytes,1,opt,name=email,proto3" json:"email,omitempty"`
	Password string `protobuf:"bytes,2,opt,name=password,proto3" json:"password,omitempty"`
}

func (m *LoginRequest) Reset()         { *m = LoginRequest{} }
func (m *LoginRequest) String() string { return fmt.Sprintf("LoginRequest{email: %q}", m.GetEmail()) }
func (*LoginRequest) ProtoMessage()    {}

func (m *LoginRequest) GetEmail() string {
	if m != nil {
		return m.Email
	}
	return ""
}

func (m *LoginRequest) GetPassword() string {
	if m != nil {
		return m.Password
	}
	return ""
}

// TokenResponse returns a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string `protobuf:"bytes,1,opt,name=access_token,json=accessToken,proto3" json:"access_token,omitempty"`
	RefreshToken string `protobuf:"bytes,2,opt,name=refresh_token,json=refreshToken,proto3" json:"refresh_token,omitempty"`
}

func (m *TokenResponse) Reset()         { *m = TokenResponse{} }
func (m *TokenResponse) String() string { return "TokenResponse{...}" }
func (*TokenResponse) ProtoMessage()    {}

func (m *TokenResponse) GetAccessToken() string {
	if m != nil {
		return m.AccessToken
	}
	return ""
}

func (m *TokenResponse) GetRefreshToken() string {
	if m != nil {
		return m.RefreshToken
	}
	return ""
}

// RefreshRequest presents a refresh token for rotation.
type RefreshRequest struct {
	RefreshToken string `protobuf:"bytes,1,opt,name=refresh_token,json=refreshToken,proto3" json:"refresh_token,omitempty"`
}

func (m *RefreshRequest) Reset()         { *m = RefreshRequest{} }
func (m *RefreshRequest) String() string { return "RefreshRequest{...}" }
func (*RefreshRequest) ProtoMessage()    {}

func (m *RefreshRequest) GetRefreshToken() string {
	if m != nil {
		return m.RefreshToken
	}
	return ""
}

// UpdatePasswordRequest carries the old and new passwords; the access token
// identifying the caller travels in request metadata, not in the body.
type UpdatePasswordRequest struct {
	PasswordOriginal string `protobuf:"bytes,1,opt,name=password_original,json=passwordOriginal,proto3" json:"password_original,omitempty"`
	PasswordNew      string `protobuf:"bytes,2,opt,name=password_new,json=passwordNew,proto3" json:"password_new,omitempty"`
}

func (m *UpdatePasswordRequest) Reset()         { *m = UpdatePasswordRequest{} }
func (m *UpdatePasswordRequest) String() string { return "UpdatePasswordRequest{...}" }
func (*UpdatePasswordRequest) ProtoMessage()    {}

func (m *UpdatePasswordRequest) GetPasswordOriginal() string {
	if m != nil {
		return m.PasswordOriginal
	}
	return ""
}

func (m *UpdatePasswordRequest) GetPasswordNew() string {
	if m != nil {
		return m.PasswordNew
	}
	return ""
}

// LogoutRequest presents the refresh token whose owner logs out.
type LogoutRequest struct {
	RefreshToken string `protobuf:"bytes,1,opt,name=refresh_token,json=refreshToken,proto3" json:"refresh_token,omitempty"`
}

func (m *LogoutRequest) Reset()         { *m = LogoutRequest{} }
func (m *LogoutRequest) String() string { return "LogoutRequest{...}" }
func (*LogoutRequest) ProtoMessage()    {}

func (m *LogoutRequest) GetRefreshToken() string {
	if m != nil {
		return m.RefreshToken
	}
	return ""
}

// LogoutResponse reports how many refresh-token records were revoked.
type LogoutResponse struct {
	RowsAffected int64 `protobuf:"varint,1,opt,name=rows_affected,json=rowsAffected,proto3" json:"rows_affected,omitempty"`
}

func (m *LogoutResponse) Reset() { *m = LogoutResponse{} }
func (m *LogoutResponse) String() string {
	return fmt.Sprintf("LogoutResponse{rows_affected: %d}", m.GetRowsAffected())
}
func (*LogoutResponse) ProtoMessage() {}

func (m *LogoutResponse) GetRowsAffected() int64 {
	if m != nil {
		return m.RowsAffected
	}
	return 0
}

// RegisterRequest carries the fields for the reserved Register RPC.
type RegisterRequest struct {
	Email    string `protobuf:"bytes,1,opt,name=email,proto3" json:"email,omitempty"`
	Password string `protobuf:"bytes,2,opt,name=password,proto3" json:"password,omitempty"`
	Name     string `protobuf:"bytes,3,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *RegisterRequest) Reset() { *m = RegisterRequest{} }
func (m *RegisterRequest) String() string {
	return fmt.Sprintf("RegisterRequest{email: %q}", m.GetEmail())
}
func (*RegisterRequest) ProtoMessage() {}

func (m *RegisterRequest) GetEmail() string {
	if m != nil {
		return m.Email
	}
	return ""
}

func (m *RegisterRequest) GetPassword() string {
	if m != nil {
		return m.Password
	}
	return ""
}

func (m *RegisterRequest) GetName() string {
	if m != nil {
		return m.Name
	}
	return ""
}

// ResetPasswordRequest carries the fields for the reserved ResetPassword RPC.
type ResetPasswordRequest struct {
	Email string `protobuf:"bytes,1,opt,name=email,proto3" json:"email,omitempty"`
}

func (m *ResetPasswordRequest) Reset() { *m = ResetPasswordRequest{} }
func (m *ResetPasswordRequest) String() string {
	return fmt.Sprintf("ResetPasswordRequest{email: %q}", m.GetEmail())
}
func (*ResetPasswordRequest) ProtoMessage() {}

func (m *ResetPasswordRequest) GetEmail() string {
	if m != nil {
		return m.Email
	}
	return ""
}

// ResetPasswordResponse is empty.
type ResetPasswordResponse struct{}

func (m *ResetPasswordResponse) Reset()         { *m = ResetPasswordResponse{} }
func (m *ResetPasswordResponse) String() string { return "ResetPasswordResponse{}" }
func (*ResetPasswordResponse) ProtoMessage()    {}
