package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/repositories"
	"github.com/shashiranjanraj/estoque/app/requests"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/auth"
)

func validRegistration() requests.RegisterRequest {
	return requests.RegisterRequest{Usuario: "maria", Email: "maria@loja.com", Senha: "segredo", Confirmacao: "segredo"}
}

func TestRegisterCreatesUser(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, auth.Plain{})

	repo.On("FindByField", mock.Anything, repositories.FieldUsername, "maria").Return(models.User{}, repositories.ErrNotFound)
	repo.On("FindByField", mock.Anything, repositories.FieldEmail, "maria@loja.com").Return(models.User{}, repositories.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "maria" && u.Password == "segredo"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "1"
	}).Return(nil)

	u, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, models.ID("1"), u.ID)
	repo.AssertExpectations(t)
}

func TestRegisterHashesWithBcrypt(t *testing.T) {
	repo := &userRepoMock{}
	hasher := auth.Bcrypt{Cost: 4}
	svc := services.NewUserService(repo, hasher)

	repo.On("FindByField", mock.Anything, mock.Anything, mock.Anything).Return(models.User{}, repositories.ErrNotFound)
	var stored string
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.User).Password
	}).Return(nil)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.NotEqual(t, "segredo", stored)
	assert.True(t, hasher.Verify(stored, "segredo"))
}

func TestRegisterValidation(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*requests.RegisterRequest)
		message string
	}{
		"short username": {func(r *requests.RegisterRequest) { r.Usuario = "ab" }, "O usuário deve ter pelo menos 3 caracteres"},
		"bad email":      {func(r *requests.RegisterRequest) { r.Email = "maria@loja" }, "Por favor, digite um e-mail válido"},
		"short password": {func(r *requests.RegisterRequest) { r.Senha, r.Confirmacao = "123", "123" }, "A senha deve ter pelo menos 6 caracteres"},
		"mismatch":       {func(r *requests.RegisterRequest) { r.Confirmacao = "outra1" }, "As senhas não coincidem"},
		"missing email":  {func(r *requests.RegisterRequest) { r.Email = "" }, "Usuário, email e senha são obrigatórios"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &userRepoMock{}
			svc := services.NewUserService(repo, nil)

			in := validRegistration()
			tc.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			require.ErrorIs(t, err, services.ErrValidation)
			assert.Equal(t, tc.message, services.Message(err, ""))
			repo.AssertNotCalled(t, "FindByField", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterUsernameTaken(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)
	repo.On("FindByField", mock.Anything, repositories.FieldUsername, "maria").Return(models.User{ID: "1"}, nil)

	_, err := svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Equal(t, "Usuário já existe", services.Message(err, ""))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterEmailTaken(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)
	repo.On("FindByField", mock.Anything, repositories.FieldUsername, "maria").Return(models.User{}, repositories.ErrNotFound)
	repo.On("FindByField", mock.Anything, repositories.FieldEmail, "maria@loja.com").Return(models.User{ID: "9"}, nil)

	_, err := svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Equal(t, "E-mail já cadastrado", services.Message(err, ""))
}

func TestRegisterRaceLosesToUniqueConstraint(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)
	repo.On("FindByField", mock.Anything, mock.Anything, mock.Anything).Return(models.User{}, repositories.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate)

	_, err := svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Equal(t, "Usuário ou e-mail já existe", services.Message(err, ""))
}

func TestRegisterStorageDown(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)
	repo.On("FindByField", mock.Anything, mock.Anything, mock.Anything).Return(models.User{}, repositories.ErrUnavailable)

	_, err := svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, services.ErrStorageUnavailable)
	assert.Equal(t, "Erro ao criar usuário", services.Message(err, ""))
}

func TestAuthenticateFailuresLookTheSame(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)
	repo.On("FindByField", mock.Anything, repositories.FieldUsername, "maria").Return(models.User{ID: "1", Username: "maria", Password: "segredo"}, nil)
	repo.On("FindByField", mock.Anything, repositories.FieldUsername, "joao").Return(models.User{}, repositories.ErrNotFound)

	_, wrongPass := svc.Authenticate(context.Background(), requests.LoginRequest{Usuario: "maria", Senha: "errada"})
	_, unknown := svc.Authenticate(context.Background(), requests.LoginRequest{Usuario: "joao", Senha: "segredo"})

	for _, err := range []error{wrongPass, unknown} {
		assert.ErrorIs(t, err, services.ErrAuthFailed)
		assert.Equal(t, "Usuário ou senha incorretos", services.Message(err, ""))
	}

	u, err := svc.Authenticate(context.Background(), requests.LoginRequest{Usuario: "maria", Senha: "segredo"})
	require.NoError(t, err)
	assert.Equal(t, "maria", u.Username)
}

func TestAuthenticateRequiresBothFields(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)

	_, err := svc.Authenticate(context.Background(), requests.LoginRequest{Usuario: "maria"})
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Equal(t, "Usuário e senha são obrigatórios", services.Message(err, ""))
	repo.AssertNotCalled(t, "FindByField", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthenticateStorageDown(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)
	repo.On("FindByField", mock.Anything, mock.Anything, mock.Anything).Return(models.User{}, repositories.ErrUnavailable)

	_, err := svc.Authenticate(context.Background(), requests.LoginRequest{Usuario: "maria", Senha: "segredo"})
	assert.ErrorIs(t, err, services.ErrStorageUnavailable)
	assert.Equal(t, "Erro ao verificar login", services.Message(err, ""))
}

func TestLoginIssuesToken(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)
	repo.On("FindByField", mock.Anything, repositories.FieldUsername, "maria").Return(models.User{ID: "4", Username: "maria", Password: "segredo"}, nil)

	session, err := svc.Login(context.Background(), requests.LoginRequest{Usuario: "maria", Senha: "segredo"})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "4", claims.Subject)
	assert.Equal(t, "maria", claims.Username)
}

func TestFindUserByFields(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)
	repo.On("FindByField", mock.Anything, repositories.FieldUsername, "maria").Return(models.User{ID: "1"}, nil)
	repo.On("FindByField", mock.Anything, repositories.FieldUsername, "ninguem").Return(models.User{}, repositories.ErrNotFound)
	repo.On("FindByField", mock.Anything, repositories.FieldEmail, "x@y.z").Return(models.User{}, repositories.ErrNotFound)

	u, err := svc.FindByUsername(context.Background(), "maria")
	require.NoError(t, err)
	assert.Equal(t, models.ID("1"), u.ID)

	_, err = svc.FindByUsername(context.Background(), "ninguem")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, "Usuário não encontrado", services.Message(err, ""))

	_, err = svc.FindByEmail(context.Background(), "x@y.z")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, "E-mail não encontrado", services.Message(err, ""))
}

func TestLookupsTrimLikeRegister(t *testing.T) {
	repo := &userRepoMock{}
	svc := services.NewUserService(repo, nil)
	repo.On("FindByField", mock.Anything, repositories.FieldUsername, "maria").Return(models.User{ID: "1", Username: "maria", Password: "segredo"}, nil)
	repo.On("FindByField", mock.Anything, repositories.FieldEmail, "maria@loja.com").Return(models.User{ID: "1"}, nil)

	u, err := svc.Authenticate(context.Background(), requests.LoginRequest{Usuario: "  maria ", Senha: "segredo"})
	require.NoError(t, err)
	assert.Equal(t, "maria", u.Username)

	_, err = svc.FindByUsername(context.Background(), " maria\t")
	require.NoError(t, err)

	_, err = svc.FindByEmail(context.Background(), " maria@loja.com ")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
