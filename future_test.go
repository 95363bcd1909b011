package xflow // import "github.com/orkestr8/xflow"

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFutureUsageMultipleWaiters(t *testing.T) {

	start := make(chan interface{})

	f := Future(func() (string, error) {
		<-start
		return "hello", nil
	})
	require.NotNil(t, f)

	c := 5
	results := make(chan string, c)

	var wg sync.WaitGroup
	for i := 0; i < c; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, f.Error())
			results <- f.Value()
		}()
	}

	select {
	case <-f.Done():
		t.Fatal("future completed before start")
	default:
	}

	close(start)
	wg.Wait()
	close(results)

	for v := range results {
		require.Equal(t, "hello", v)
	}
	<-f.Done()
}

func TestFutureError(t *testing.T) {

	f := Future(func() (int, error) {
		return 0, fmt.Errorf("failed")
	})
	require.EqualError(t, f.Error(), "failed")
	require.Equal(t, 0, f.Value())
}
