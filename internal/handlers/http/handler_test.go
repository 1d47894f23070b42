//go:build unit

package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handler "github.com/Nazarious-ucu/weather-lookup/internal/handlers/http"
	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	args := m.Called(ctx, city)
	data, ok := args.Get(0).(models.WeatherSnapshot)
	if !ok {
		return models.WeatherSnapshot{}, args.Error(1)
	}
	return data, args.Error(1)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) GetAll(ctx context.Context) []string {
	list, _ := m.Called(ctx).Get(0).([]string)
	return list
}

func (m *mockHistory) Record(ctx context.Context, city string) {
	m.Called(ctx, city)
}

func (m *mockHistory) Remove(ctx context.Context, city string) {
	m.Called(ctx, city)
}

func (m *mockHistory) Clear(ctx context.Context) {
	m.Called(ctx)
}

type mockPreview struct {
	mock.Mock
}

func (m *mockPreview) Load(ctx context.Context, cities []string) map[string]models.WeatherSnapshot {
	out, _ := m.Called(ctx, cities).Get(0).(map[string]models.WeatherSnapshot)
	return out
}

type fixture struct {
	resolver *mockResolver
	history  *mockHistory
	preview  *mockPreview
	router   *gin.Engine
}

func newFixture(t *testing.T, opts ...handler.Option) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		resolver: &mockResolver{},
		history:  &mockHistory{},
		preview:  &mockPreview{},
		router:   gin.New(),
	}
	f.router.UseRawPath = true
	handler.NewHandler(f.resolver, f.history, f.preview, zerolog.Nop(), opts...).Register(f.router)

	t.Cleanup(func() {
		f.resolver.AssertExpectations(t)
		f.history.AssertExpectations(t)
		f.preview.AssertExpectations(t)
	})
	return f
}

func (f *fixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestGetWeather_NoCity(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/api/weather", "/api/weather?city=%20%20"} {
		rec := f.do(t, http.MethodGet, target)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"city query parameter is required"}`, rec.Body.String())
	}
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestGetWeather_SuccessRecordsTrimmedCity(t *testing.T) {
	f := newFixture(t)
	data := models.WeatherSnapshot{LocationName: "Kyiv", CountryCode: "UA", TemperatureC: 20.5}

	f.resolver.On("Resolve", mock.Anything, "Kyiv").Return(data, nil).Once()
	f.history.On("Record", mock.Anything, "Kyiv").Once()

	rec := f.do(t, http.MethodGet, "/api/weather?city=%20Kyiv%20")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"locationName":"Kyiv"`)
}

func TestGetWeather_RecordsAfterSlowResolve(t *testing.T) {
	f := newFixture(t, handler.WithTimeout(20*time.Millisecond))
	data := models.WeatherSnapshot{LocationName: "Kyiv", CountryCode: "UA"}

	f.resolver.On("Resolve", mock.Anything, "Kyiv").
		Run(func(args mock.Arguments) {
			ctx, _ := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(data, nil).Once()

	var recordErr error
	f.history.On("Record", mock.Anything, "Kyiv").
		Run(func(args mock.Arguments) {
			ctx, _ := args.Get(0).(context.Context)
			recordErr = ctx.Err()
		}).Once()

	rec := f.do(t, http.MethodGet, "/api/weather?city=Kyiv")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, recordErr)
}

func TestGetWeather_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			name:   "not found",
			err:    fmt.Errorf("%w: atlantis", models.ErrNotFound),
			status: http.StatusNotFound,
			msg:    "City not found. Please check the spelling and try again.",
		},
		{
			name:   "provider",
			err:    fmt.Errorf("%w: status 500", models.ErrProvider),
			status: http.StatusBadGateway,
			msg:    "Failed to fetch weather data. Please try again.",
		},
		{
			name:   "network",
			err:    fmt.Errorf("%w: dial tcp", models.ErrNetwork),
			status: http.StatusServiceUnavailable,
			msg:    "Network error. Please check your connection and try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.resolver.On("Resolve", mock.Anything, "Atlantis").
				Return(models.WeatherSnapshot{}, tt.err).Once()

			rec := f.do(t, http.MethodGet, "/api/weather?city=Atlantis")

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.msg), rec.Body.String())
			f.history.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
		})
	}
}

func TestGetHistory(t *testing.T) {
	f := newFixture(t)
	f.history.On("GetAll", mock.Anything).Return([]string{"Tokyo", "Paris"}).Once()

	rec := f.do(t, http.MethodGet, "/api/history")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"history":["Tokyo","Paris"]}`, rec.Body.String())
}

func TestGetHistoryPreview(t *testing.T) {
	f := newFixture(t)
	list := []string{"A", "B", "C"}

	f.history.On("GetAll", mock.Anything).Return(list).Once()
	f.preview.On("Load", mock.Anything, list).Return(map[string]models.WeatherSnapshot{
		"A": {LocationName: "A"},
	}).Once()

	rec := f.do(t, http.MethodGet, "/api/history/preview")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"history":["A","B","C"]`)
	assert.Contains(t, rec.Body.String(), `"weather":{"A":{`)
}

func TestRemoveCity(t *testing.T) {
	f := newFixture(t)
	f.history.On("Remove", mock.Anything, "Paris").Once()

	rec := f.do(t, http.MethodDelete, "/api/history/Paris")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRemoveCity_EscapedSlash(t *testing.T) {
	f := newFixture(t)
	f.history.On("Remove", mock.Anything, "Frankfurt/Oder").Once()

	rec := f.do(t, http.MethodDelete, "/api/history/Frankfurt%2FOder")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t)
	f.history.On("Clear", mock.Anything).Once()

	rec := f.do(t, http.MethodDelete, "/api/history")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
