package container

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

// fakeGCS answers single-request object uploads for the given bucket.
func fakeGCS(t *testing.T, bucket string, uploads *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/b/"+bucket+"/o") {
			http.NotFound(w, r)
			return
		}
		_, _ = io.Copy(io.Discard, r.Body)
		atomic.AddInt32(uploads, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"bucket":"`+bucket+`","name":"restaurants/r-1/photo.jpg","size":"4"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestServices_LeavesPhotoUploaderOpen(t *testing.T) {
	var uploads int32
	srv := fakeGCS(t, "photos", &uploads)
	t.Setenv("STORAGE_EMULATOR_HOST", srv.Listener.Addr().String())

	ctx := context.Background()
	client, err := helpers.NewGCSClient(ctx, "")
	require.NoError(t, err)

	c := &Container{Logger: helpers.NewDiscardLogger(), Photos: helpers.NewGCSUploader(client, "photos")}
	svc := c.Services()
	require.NotNil(t, svc.Restaurants.Photos)

	url, err := svc.Restaurants.Photos.Upload(ctx, "restaurants/r-1/photo.jpg", "image/jpeg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	require.Equal(t, helpers.PublicURL("photos", "restaurants/r-1/photo.jpg"), url)
	require.EqualValues(t, 1, atomic.LoadInt32(&uploads))

	c.Close()
}

func TestServices_OptionalBackendsStayNil(t *testing.T) {
	c := &Container{Logger: helpers.NewDiscardLogger()}
	svc := c.Services()

	require.Nil(t, svc.Auth.Revoked)
	require.Nil(t, svc.Restaurants.Photos)
	require.Nil(t, svc.Restaurants.Search)
	require.Nil(t, svc.Restaurants.Events)
}
