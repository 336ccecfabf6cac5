package service

import (
	"context"
	"testing"
	"time"

	"npnbot/models"

	"github.com/stretchr/testify/assert"
)

func antispamServiceWithConfig(t *testing.T, config *models.AntispamConfig) AntispamService {
	t.Helper()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockConfigRepo := new(MockAntispamConfigRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockConfigRepo, nil, nil, nil, nil, nil, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", context.Background()).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockConfigRepo.On("Get", context.Background(), int64(1)).Return(config, nil)

	return NewAntispamService(mockFactory)
}

func TestAntispamService_CheckMessage_Disabled(t *testing.T) {
	ctx := context.Background()

	t.Run("no config stored", func(t *testing.T) {
		service := antispamServiceWithConfig(t, nil)

		verdict, err := service.CheckMessage(ctx, 1, 10, "hello", time.Now())
		assert.NoError(t, err)
		assert.Nil(t, verdict)
	})

	t.Run("config disabled", func(t *testing.T) {
		service := antispamServiceWithConfig(t, &models.AntispamConfig{
			GuildID: 1,
			Enabled: false,
		})

		verdict, err := service.CheckMessage(ctx, 1, 10, "hello", time.Now())
		assert.NoError(t, err)
		assert.Nil(t, verdict)
	})
}

func TestAntispamService_CheckMessage_BurstOverThreshold(t *testing.T) {
	ctx := context.Background()
	service := antispamServiceWithConfig(t, &models.AntispamConfig{
		GuildID:           1,
		Enabled:           true,
		MaxMessages:       3,
		TimeWindowSeconds: 10,
		Action:            models.SpamActionMute,
	})

	base := time.Now()

	// Three distinct messages inside the window stay fine
	for i := 0; i < 3; i++ {
		verdict, err := service.CheckMessage(ctx, 1, 10, msgContent(i), base.Add(time.Duration(i)*time.Second))
		assert.NoError(t, err)
		assert.Nil(t, verdict)
	}

	// The fourth crosses the threshold
	verdict, err := service.CheckMessage(ctx, 1, 10, msgContent(3), base.Add(3*time.Second))
	assert.NoError(t, err)
	assert.NotNil(t, verdict)
	assert.Equal(t, models.SpamActionMute, verdict.Action)

	// Acting on the burst clears the history, so the next message is fine
	verdict, err = service.CheckMessage(ctx, 1, 10, "fresh start", base.Add(4*time.Second))
	assert.NoError(t, err)
	assert.Nil(t, verdict)
}

func TestAntispamService_CheckMessage_WindowSlides(t *testing.T) {
	ctx := context.Background()
	service := antispamServiceWithConfig(t, &models.AntispamConfig{
		GuildID:           1,
		Enabled:           true,
		MaxMessages:       2,
		TimeWindowSeconds: 5,
		Action:            models.SpamActionWarn,
	})

	base := time.Now()

	verdict, err := service.CheckMessage(ctx, 1, 10, "one", base)
	assert.NoError(t, err)
	assert.Nil(t, verdict)

	verdict, err = service.CheckMessage(ctx, 1, 10, "two", base.Add(time.Second))
	assert.NoError(t, err)
	assert.Nil(t, verdict)

	// Far enough out that the earlier messages have aged off
	verdict, err = service.CheckMessage(ctx, 1, 10, "three", base.Add(10*time.Second))
	assert.NoError(t, err)
	assert.Nil(t, verdict)
}

func TestAntispamService_CheckMessage_DuplicateContent(t *testing.T) {
	ctx := context.Background()
	service := antispamServiceWithConfig(t, &models.AntispamConfig{
		GuildID:           1,
		Enabled:           true,
		MaxMessages:       10,
		TimeWindowSeconds: 10,
		Action:            models.SpamActionKick,
	})

	base := time.Now()

	verdict, err := service.CheckMessage(ctx, 1, 10, "buy cheap nitro", base)
	assert.NoError(t, err)
	assert.Nil(t, verdict)

	verdict, err = service.CheckMessage(ctx, 1, 10, "buy cheap nitro", base.Add(time.Second))
	assert.NoError(t, err)
	assert.NotNil(t, verdict)
	assert.Equal(t, models.SpamActionKick, verdict.Action)
}

func TestAntispamService_Configure_Validates(t *testing.T) {
	ctx := context.Background()
	service := NewAntispamService(new(MockUnitOfWorkFactory))

	t.Run("bad action", func(t *testing.T) {
		err := service.Configure(ctx, &models.AntispamConfig{
			Action:            "ban",
			MaxMessages:       5,
			TimeWindowSeconds: 10,
		})
		assert.Error(t, err)
	})

	t.Run("bad limits", func(t *testing.T) {
		err := service.Configure(ctx, &models.AntispamConfig{
			Action:            models.SpamActionWarn,
			MaxMessages:       0,
			TimeWindowSeconds: 10,
		})
		assert.Error(t, err)
	})
}

func msgContent(i int) string {
	return string(rune('a' + i))
}
