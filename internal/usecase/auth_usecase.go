package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/repository"
)

const minPasswordLength = 6

type RoleDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type UserDTO struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone,omitempty"`
	AvatarURL  string    `json:"avatarUrl,omitempty"`
	Status     string    `json:"status"`
	IsVerified bool      `json:"isVerified"`
	Role       RoleDTO   `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

type LoginInput struct {
	Email    string
	Password string
}

// handlerはUserとAccess系をJSONに、RefreshTokenはCookieに詰める
type AuthResult struct {
	User   UserDTO
	Tokens TokenPair
}

type AuthUsecase struct {
	users    repository.UserRepository
	sessions *SessionUsecase
	tx       repository.TransactionManager
	hasher   PasswordHasher
	verifier PasswordVerifier
}

// DI
func NewAuthUsecase(
	users repository.UserRepository,
	sessions *SessionUsecase,
	tx repository.TransactionManager,
	hasher PasswordHasher,
	verifier PasswordVerifier,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		sessions: sessions,
		tx:       tx,
		hasher:   hasher,
		verifier: verifier,
	}
}

// 会員登録（CUSTOMERで作成）してそのままログイン状態にする
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput, meta SessionMeta) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, invalidArgument("invalid email format")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalidArgument("password must be at least 6 characters")
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, invalidArgument("fullName is required")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, internal(err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: pwHash,
		FullName:     fullName,
		Phone:        strings.TrimSpace(in.Phone),
		RoleID:       model.RoleCustomer,
		Status:       model.UserStatusActive,
	}
	//ユーザー作成とrefresh保存は同一Tx（発行失敗でユーザーを残さない）
	var tokens TokenPair
	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return conflict("email already exists")
			}
			return internal(err)
		}
		var err error
		tokens, err = u.sessions.issueWith(ctx, r.RefreshTokens(), user, meta)
		return err
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return nil, err
		}
		return nil, internal(err)
	}
	return &AuthResult{User: ToUserDTO(user), Tokens: tokens}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput, meta SessionMeta) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, invalidArgument("email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorized("invalid email or password")
		}
		return nil, internal(err)
	}

	//パスワード照合
	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return nil, unauthorized("invalid email or password")
	}

	//停止ユーザーはログイン不可
	if err := checkUserStatus(user); err != nil {
		return nil, err
	}

	tokens, err := u.sessions.Issue(ctx, user, meta)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: ToUserDTO(user), Tokens: tokens}, nil
}

func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string, meta SessionMeta) (*AuthResult, error) {
	tokens, user, err := u.sessions.Rotate(ctx, refreshToken, meta)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: ToUserDTO(user), Tokens: tokens}, nil
}

func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	return u.sessions.Revoke(ctx, refreshToken)
}

func (u *AuthUsecase) LogoutAll(ctx context.Context, userID int64) (int64, error) {
	return u.sessions.RevokeAll(ctx, userID)
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	if userID <= 0 {
		return nil, unauthorized("unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("user not found")
		}
		return nil, internal(err)
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// model.UserをAPI返却用DTOに変換。
func ToUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Phone:      u.Phone,
		AvatarURL:  u.AvatarURL,
		Status:     string(u.Status),
		IsVerified: u.IsVerified,
		Role:       RoleDTO{ID: int(u.RoleID), Name: u.RoleID.String()},
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
