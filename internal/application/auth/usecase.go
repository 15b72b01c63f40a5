package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/reparto-api/internal/application/dto"
	"github.com/jhoicas/reparto-api/internal/domain"
	"github.com/jhoicas/reparto-api/internal/domain/entity"
	"github.com/jhoicas/reparto-api/internal/domain/linkcode"
	"github.com/jhoicas/reparto-api/internal/domain/repository"
	"github.com/jhoicas/reparto-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// dummyHash se compara cuando el email no existe, para que el login tarde lo mismo.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("reparto-dummy-password"), bcrypt.DefaultCost)

// AuthUseCase casos de uso de autenticación: alta de negocio, vinculación, login y logout.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	tx           SignupTxRunner
	revoker      TokenRevoker
	jwtCfg       JWTConfig
	masterCode   string
	now          func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. revoker nil = NopRevoker.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	tx SignupTxRunner,
	revoker TokenRevoker,
	jwtCfg JWTConfig,
	masterCode string,
) *AuthUseCase {
	if revoker == nil {
		revoker = NopRevoker{}
	}
	return &AuthUseCase{
		userRepo:     userRepo,
		businessRepo: businessRepo,
		tx:           tx,
		revoker:      revoker,
		jwtCfg:       jwtCfg,
		masterCode:   masterCode,
		now:          time.Now,
	}
}

// Signup da de alta un negocio con su admin (activo). Requiere el código maestro.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.SignupResponse, error) {
	if uc.masterCode == "" || subtle.ConstantTimeCompare([]byte(in.MasterCode), []byte(uc.masterCode)) != 1 {
		return nil, domain.ErrInvalidMasterCode
	}
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	business := &entity.Business{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.BusinessName),
		Phone:     in.Phone,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		BusinessID:   business.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	catalog := entity.DefaultCatalog(business.ID, now)
	_, err = linkcode.Assign(ctx, business.ID, uc.businessRepo.LinkCodeTaken, func(code string) error {
		business.LinkCode = code
		return uc.tx.RunSignup(ctx, func(
			businessRepo repository.BusinessRepository,
			catalogRepo repository.CatalogRepository,
			inventoryRepo repository.InventoryRepository,
			userRepo repository.UserRepository,
		) error {
			if err := businessRepo.Create(ctx, business); err != nil {
				return err
			}
			for _, p := range catalog {
				p.ID = uuid.New().String()
				if err := catalogRepo.Create(ctx, p); err != nil {
					return err
				}
			}
			for _, category := range entity.AssetCategories {
				if err := inventoryRepo.Upsert(ctx, &entity.InventoryAsset{
					BusinessID:      business.ID,
					Category:        category,
					ReplacementCost: decimal.Zero,
					UpdatedAt:       now,
				}); err != nil {
					return err
				}
			}
			return userRepo.Create(ctx, admin)
		})
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.token(admin)
	if err != nil {
		return nil, err
	}
	return &dto.SignupResponse{
		Token:    token,
		User:     *dto.ToUserResponse(admin),
		Business: *dto.ToBusinessResponse(business, catalog, true),
	}, nil
}

// Join vincula un empleado nuevo al negocio dueño del código. Nace inactivo hasta que un admin lo active.
func (uc *AuthUseCase) Join(ctx context.Context, in dto.JoinRequest) (*dto.UserResponse, error) {
	code := linkcode.Normalize(in.LinkCode)
	if !linkcode.Valid(code) {
		return nil, domain.ErrInvalidLinkCode
	}
	business, err := uc.businessRepo.GetByLinkCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrInvalidLinkCode
	}
	if business.Suspended {
		return nil, domain.ErrSuspended
	}
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		BusinessID:   business.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         entity.RoleEmployee,
		Active:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email inexistente y password incorrecta devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrInactiveUser
	}
	var business *entity.Business
	if user.BusinessID != "" {
		business, err = uc.businessRepo.GetByID(ctx, user.BusinessID)
		if err != nil {
			return nil, err
		}
		if business != nil && business.Suspended && user.Role != entity.RoleSuperAdmin {
			return nil, domain.ErrSuspended
		}
	}
	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		User:     *dto.ToUserResponse(user),
		Business: dto.ToBusinessResponse(business, nil, user.Role == entity.RoleAdmin),
	}, nil
}

// Logout revoca el token hasta su expiración natural.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return uc.revoker.Revoke(ctx, tokenID, ttl)
}

// Me devuelve el usuario autenticado con su negocio.
func (uc *AuthUseCase) Me(ctx context.Context, actor dto.Actor) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	var business *entity.Business
	if user.BusinessID != "" {
		business, err = uc.businessRepo.GetByID(ctx, user.BusinessID)
		if err != nil {
			return nil, err
		}
	}
	return &dto.LoginResponse{
		User:     *dto.ToUserResponse(user),
		Business: dto.ToBusinessResponse(business, nil, user.Role == entity.RoleAdmin),
	}, nil
}

// HashPassword expuesto para el seed del superadmin.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (uc *AuthUseCase) token(u *entity.User) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, u.ID, u.BusinessID, u.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
