package product

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func postJSON(t *testing.T, handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return w
}

func TestCreateProductRejectsBadCategoryID(t *testing.T) {
	w := postJSON(t, CreateProduct,
		`{"name":"Choy","price_minor":12000,"currency":"UZS","stock":5,"category_id":"not-a-uuid"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid category ID")
}

func TestCreateProductRejectsBadCurrency(t *testing.T) {
	w := postJSON(t, CreateProduct,
		`{"name":"Choy","price_minor":12000,"currency":"EUR","stock":5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Currency must be UZS or USD")
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	w := postJSON(t, CreateProduct,
		`{"name":"Choy","price_minor":-5,"currency":"UZS"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
