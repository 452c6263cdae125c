package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/saikiransomanagoudar/sonarcare/internal/constant"
	"github.com/saikiransomanagoudar/sonarcare/internal/dto"
	"github.com/saikiransomanagoudar/sonarcare/internal/entity"
	"github.com/saikiransomanagoudar/sonarcare/internal/model"
	"github.com/saikiransomanagoudar/sonarcare/internal/repository/unitofwork"
	"github.com/saikiransomanagoudar/sonarcare/internal/service"
	"github.com/saikiransomanagoudar/sonarcare/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatStoreRoundTrip(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	require.NoError(t, gormDB.AutoMigrate(&model.ChatSession{}, &model.ChatMessage{}))

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())

	svc := service.NewChatService(uowFactory)
	ctx := context.Background()
	uid := "integration-test-user"

	created, err := svc.CreateSession(ctx, uid, &dto.CreateSessionRequest{UserId: uid, Title: "Integration run"})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, svc.DeleteSession(ctx, uid, created.Id))
	}()

	t.Run("Message round trip", func(t *testing.T) {
		msg := &entity.ChatMessage{
			Text:      "I have a sore throat",
			Sender:    constant.SenderUser,
			SessionId: created.Id,
			UserId:    uid,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]interface{}{"intent": "symptom_inquiry"},
		}
		require.NoError(t, svc.CreateMessage(ctx, msg))

		messages, err := svc.GetMessages(ctx, uid, created.Id, 0)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "I have a sore throat", messages[0].Text)
		assert.Equal(t, "symptom_inquiry", messages[0].Metadata["intent"])
	})

	t.Run("Ownership enforced", func(t *testing.T) {
		_, err := svc.GetMessages(ctx, "someone-else", created.Id, 0)
		assert.ErrorIs(t, err, service.ErrAccessDenied)
	})

	t.Run("History window", func(t *testing.T) {
		window, err := svc.Messages(ctx, created.Id.String(), uid, 10)
		require.NoError(t, err)
		assert.NotEmpty(t, window)
	})
}
