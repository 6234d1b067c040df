package enrol

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusCreated, CodeCreated.HTTPStatus())
	// The historical 203 stays in the body; the wire gets a real 403.
	assert.Equal(t, http.StatusForbidden, CodeForbidden.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeStoreFailure.HTTPStatus())
}

func TestResultHelpersPreserveDomainCodes(t *testing.T) {
	assert.Equal(t, Result{Message: "ok", Code: 201}, Created("ok"))
	assert.Equal(t, Result{Message: "no", Code: 203}, Forbidden("no"))
	assert.Equal(t, Result{Message: "gone", Code: 404}, NotFound("gone"))
	assert.Equal(t, Result{Message: "bad", Code: 500}, StoreFailure("bad"))
}
