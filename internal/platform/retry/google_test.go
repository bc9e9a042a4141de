package retry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestGoogleAPITransient(t *testing.T) {
	assert.True(t, GoogleAPITransient(&googleapi.Error{Code: 503}))
	assert.True(t, GoogleAPITransient(&googleapi.Error{Code: 429}))
	assert.True(t, GoogleAPITransient(fmt.Errorf("synthesize: %w", &googleapi.Error{Code: 500})))
	assert.False(t, GoogleAPITransient(&googleapi.Error{Code: 400}))
	assert.False(t, GoogleAPITransient(context.DeadlineExceeded))
}
