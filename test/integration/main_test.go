//go:build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/app"
	"github.com/Nazarious-ucu/weather-lookup/internal/config"
)

const owmKyiv = `{
	"name": "Kyiv",
	"dt": 1718000000,
	"sys": {"country": "UA", "sunrise": 1717985000, "sunset": 1718044000},
	"main": {"temp": 21.5, "feels_like": 21.0, "temp_min": 19.0, "temp_max": 23.0, "humidity": 55, "pressure": 1012},
	"wind": {"speed": 3.2, "deg": 180},
	"visibility": 10000,
	"weather": [{"main": "Clouds", "description": "scattered clouds", "icon": "03d"}]
}`

var testServerURL string

// fakeOpenWeatherMap knows a single city.
func fakeOpenWeatherMap() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "integration-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("q") != "Kyiv" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(owmKyiv))
	}))
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	fmt.Println("Starting integration tests...")

	dir, err := os.MkdirTemp("", "weather-lookup-integration")
	if err != nil {
		log.Panic(err)
	}

	owm := fakeOpenWeatherMap()

	cfg := config.Config{
		OpenWeatherMapAPIKey: "integration-key",
		OpenWeatherMapURL:    owm.URL,
		HTTPTimeout:          5,
		PreviewLimit:         5,
		Server:               config.Server{Host: "127.0.0.1", Port: "0", ReadTimeout: 5},
		Breaker:              config.Breaker{TimeInterval: 30, TimeTimeOut: 10, RepeatNumber: 5},
		Storage:              config.Storage{Driver: config.DriverSQLite, Source: filepath.Join(dir, "weather.db")},
		HTTPLogsPath:         filepath.Join(dir, "http.log"),
	}

	application := app.New(cfg, zerolog.Nop())
	srvContainer, err := application.Init(context.Background())
	if err != nil {
		log.Panicf("failed to initialize application: %v", err)
	}

	testServer := httptest.NewServer(srvContainer.Router)
	testServerURL = testServer.URL

	code := m.Run()

	testServer.Close()
	if err := application.Shutdown(srvContainer); err != nil {
		log.Printf("failed to shutdown application: %v", err)
	}
	owm.Close()
	_ = os.RemoveAll(dir)

	os.Exit(code)
}
