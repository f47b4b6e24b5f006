package service

import (
	"testing"

	"kumba_backend/internal/model"
	"kumba_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialCreateStatusFromText(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMaterialService(env.materials)

	pending, err := svc.Create(testUser, CreateMaterialInput{Title: "Notes", FileType: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, model.MaterialProcessing, pending.Status)

	ready, err := svc.Create(testUser, CreateMaterialInput{
		Title: "Notes 2", FileType: "txt", ExtractedText: "chapter one",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MaterialCompleted, ready.Status)
}

func TestMaterialAttachExtractedText(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMaterialService(env.materials)

	material, err := svc.Create(testUser, CreateMaterialInput{Title: "Notes", FileType: "pdf"})
	require.NoError(t, err)

	updated, err := svc.AttachExtractedText(testUser, material.ID, "extracted body")
	require.NoError(t, err)
	assert.Equal(t, model.MaterialCompleted, updated.Status)

	failed, err := svc.AttachExtractedText(testUser, material.ID, "   ")
	require.NoError(t, err)
	assert.Equal(t, model.MaterialFailed, failed.Status)
}

func TestMaterialGetScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMaterialService(env.materials)

	material, err := svc.Create("other-user", CreateMaterialInput{Title: "Notes", FileType: "pdf"})
	require.NoError(t, err)

	_, err = svc.Get(testUser, material.ID)
	assert.ErrorIs(t, err, util.ErrMaterialNotFound)

	list, err := svc.List(testUser)
	require.NoError(t, err)
	assert.Empty(t, list)
}
