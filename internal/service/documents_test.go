package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hr-rag-bot/internal/service"
	"hr-rag-bot/internal/storage"
	storagemocks "hr-rag-bot/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDocumentService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := storagemocks.NewMockDocumentStore(ctrl)
	svc := service.NewDocumentService(repo)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.EXPECT().List(gomock.Any()).Return([]storage.DocumentRecord{
		{ID: "1", Source: "leave.pdf", Hash: "abc", ChunkCount: 4, IngestedAt: at},
		{ID: "2", Source: "travel.pdf", Hash: "", ChunkCount: 2, IngestedAt: at},
	}, nil)

	docs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []service.Document{
		{Source: "leave.pdf", Chunks: 4, Complete: true, IngestedAt: at},
		{Source: "travel.pdf", Chunks: 2, Complete: false, IngestedAt: at},
	}, docs)
}

func TestDocumentService_List_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := storagemocks.NewMockDocumentStore(ctrl)
	repo.EXPECT().List(gomock.Any()).Return(nil, nil)

	docs, err := service.NewDocumentService(repo).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentService_List_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := storagemocks.NewMockDocumentStore(ctrl)
	repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("database is locked"))

	_, err := service.NewDocumentService(repo).List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrUnavailable)
}
