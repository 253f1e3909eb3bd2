package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/service"
	"github.com/phrazzld/agrofarm-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleProducer() *domain.Producer {
	return &domain.Producer{
		ID:        uuid.New(),
		Name:      "Ana Souza",
		CPF:       "52998224725",
		BirthDate: time.Date(1975, 8, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestProducerHandler_CreateProducer(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &MockProducerService{}
		producer := sampleProducer()
		svc.On("CreateProducer", mock.Anything, domain.ProducerDetails{
			Name:      "Ana Souza",
			CPF:       "52998224725",
			Phone:     "+5511999999999",
			BirthDate: time.Date(1975, 8, 20, 0, 0, 0, 0, time.UTC),
		}).Return(producer, nil)

		rec := doRequest(t, newTestRouter(nil, svc, nil), http.MethodPost, "/api/producers",
			`{"name":"Ana Souza","cpf":"52998224725","phone":"+5511999999999","birth_date":"1975-08-20"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp ProducerResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, producer.ID, resp.ID)
		assert.Equal(t, "1975-08-20", resp.BirthDate)
		svc.AssertExpectations(t)
	})

	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"invalid cpf", `{"name":"A","cpf":"52998224726","birth_date":"1975-08-20"}`, "Invalid cpf: invalid CPF"},
		{"invalid cnpj", `{"name":"A","cnpj":"11222333000180","birth_date":"1975-08-20"}`, "Invalid cnpj: invalid CNPJ"},
		{"bad email", `{"name":"A","email":"nope","birth_date":"1975-08-20"}`, "Invalid email: invalid email format"},
		{"bad phone", `{"name":"A","phone":"1199","birth_date":"1975-08-20"}`, "Invalid phone: must be an international phone number"},
		{"bad birth date", `{"name":"A","birth_date":"20/08/1975"}`, "Invalid birth_date: must be a date in YYYY-MM-DD format"},
		{"missing name", `{"birth_date":"1975-08-20"}`, "Invalid name: required field"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockProducerService{}
			rec := doRequest(t, newTestRouter(nil, svc, nil), http.MethodPost, "/api/producers", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.wantMessage, decodeError(t, rec).Error)
			svc.AssertNotCalled(t, "CreateProducer", mock.Anything, mock.Anything)
		})
	}
}

func TestProducerHandler_UpdateProducer(t *testing.T) {
	producer := sampleProducer()
	path := "/api/producers/" + producer.ID.String()

	t.Run("clearing cpf passes an empty value", func(t *testing.T) {
		svc := &MockProducerService{}
		empty := ""
		svc.On("UpdateProducer", mock.Anything, producer.ID, service.ProducerPatch{CPF: &empty}).
			Return(producer, nil)

		rec := doRequest(t, newTestRouter(nil, svc, nil), http.MethodPut, path, `{"cpf":""}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("birth date is parsed", func(t *testing.T) {
		svc := &MockProducerService{}
		birth := time.Date(1980, 5, 15, 0, 0, 0, 0, time.UTC)
		svc.On("UpdateProducer", mock.Anything, producer.ID, service.ProducerPatch{BirthDate: &birth}).
			Return(producer, nil)

		rec := doRequest(t, newTestRouter(nil, svc, nil), http.MethodPut, path, `{"birth_date":"1980-05-15"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad email", func(t *testing.T) {
		svc := &MockProducerService{}
		rec := doRequest(t, newTestRouter(nil, svc, nil), http.MethodPut, path, `{"email":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid email: invalid email format", decodeError(t, rec).Error)
	})

	t.Run("domain rejects cpf", func(t *testing.T) {
		svc := &MockProducerService{}
		svc.On("UpdateProducer", mock.Anything, producer.ID, mock.Anything).Return(nil,
			service.NewServiceError("producer", "update", "invalid producer",
				domain.NewValidationError("cpf", "must be 11 digits with valid check digits", domain.ErrInvalidCPF)))

		rec := doRequest(t, newTestRouter(nil, svc, nil), http.MethodPut, path, `{"cpf":"123"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid cpf: must be 11 digits with valid check digits", decodeError(t, rec).Error)
	})
}

func TestProducerHandler_DeleteProducer(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"still owns farms", store.ErrProducerHasFarms, http.StatusConflict},
		{"not found", store.ErrProducerNotFound, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockProducerService{}
			id := uuid.New()
			svc.On("DeleteProducer", mock.Anything, id).Return(tc.serviceErr)

			rec := doRequest(t, newTestRouter(nil, svc, nil), http.MethodDelete, "/api/producers/"+id.String(), "")
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestProducerHandler_ListAndGet(t *testing.T) {
	svc := &MockProducerService{}
	producer := sampleProducer()
	svc.On("ListProducers", mock.Anything, store.ProducerFilter{Name: "souza"}, store.PageRequest{Page: 2, Size: 5}).
		Return(&store.Page[*domain.Producer]{
			Items:       []*domain.Producer{producer},
			TotalItems:  6,
			TotalPages:  2,
			CurrentPage: 2,
		}, nil)
	svc.On("GetProducer", mock.Anything, producer.ID).Return(producer, nil)

	router := newTestRouter(nil, svc, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/producers?page=2&size=5&name=souza", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page PageResponse[ProducerResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 6, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "52998224725", page.Items[0].CPF)

	rec = doRequest(t, router, http.MethodGet, "/api/producers/"+producer.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
