package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindSOSBody(t *testing.T, body string) (submitSOSRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/sos", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req submitSOSRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

func TestSubmitSOSBindsZeroCoordinates(t *testing.T) {
	// A caller on the equator sends latitude 0; the payload is valid.
	req, err := bindSOSBody(t, `{"latitude": 0, "longitude": 120.9842}`)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if req.Latitude == nil || *req.Latitude != 0 {
		t.Errorf("latitude = %v, want 0", req.Latitude)
	}
	if req.Longitude == nil || *req.Longitude != 120.9842 {
		t.Errorf("longitude = %v, want 120.9842", req.Longitude)
	}
}

func TestSubmitSOSRejectsMissingCoordinates(t *testing.T) {
	cases := map[string]string{
		"no latitude":  `{"longitude": 120.9842}`,
		"no longitude": `{"latitude": 14.5995}`,
		"empty body":   `{}`,
	}
	for name, body := range cases {
		if _, err := bindSOSBody(t, body); err == nil {
			t.Errorf("%s: bind succeeded, want error", name)
		}
	}
}
