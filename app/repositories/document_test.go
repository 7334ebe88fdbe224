package repositories

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/shashiranjanraj/estoque/pkg/database"
)

// TestDocumentAdapter needs a reachable MongoDB; set MONGO_TEST_URI to run it.
func TestDocumentAdapter(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	s := &AdapterSuite{}
	n := 0
	s.newAdapter = func() Adapter {
		n++
		ctx := context.Background()
		client, err := database.OpenMongo(ctx, uri)
		require.NoError(t, err)

		name := fmt.Sprintf("estoque_test_%d_%d", time.Now().UnixNano(), n)
		t.Cleanup(func() {
			c, err := database.OpenMongo(ctx, uri)
			if err != nil {
				return
			}
			_ = c.Database(name).Drop(ctx)
			_ = c.Disconnect(ctx)
		})
		return NewDocument(client, name, 2*time.Second)
	}
	suite.Run(t, s)
}
