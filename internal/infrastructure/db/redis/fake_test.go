package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeServer answers the handful of commands the locker and session store
// issue, straight from a map. It is installed as a client hook, so no
// connection is ever dialed.
type fakeServer struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	fail error
}

func newFakeClient() (*redis.Client, *fakeServer) {
	srv := &fakeServer{data: map[string]string{}, ttls: map[string]time.Duration{}}
	client := redis.NewClient(&redis.Options{Addr: "fake:6379"})
	client.AddHook(srv)
	return client, srv
}

func (f *fakeServer) get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeServer) set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

func (f *fakeServer) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *fakeServer) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeServer) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.fail != nil {
			cmd.SetErr(f.fail)
			return f.fail
		}

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.BoolCmd: // SET key value EX n NX
			key := fmt.Sprint(args[1])
			if _, taken := f.data[key]; taken {
				c.SetVal(false)
				return nil
			}
			f.data[key] = fmt.Sprint(args[2])
			f.ttls[key] = expiry(args)
			c.SetVal(true)
		case *redis.StatusCmd: // SET key value EX n
			key := fmt.Sprint(args[1])
			f.data[key] = fmt.Sprint(args[2])
			f.ttls[key] = expiry(args)
			c.SetVal("OK")
		case *redis.IntCmd: // EXISTS key
			var n int64
			for _, k := range args[1:] {
				if _, ok := f.data[fmt.Sprint(k)]; ok {
					n++
				}
			}
			c.SetVal(n)
		case *redis.Cmd: // EVALSHA sha 1 key token: the unlock script
			key, token := fmt.Sprint(args[3]), fmt.Sprint(args[4])
			if f.data[key] == token {
				delete(f.data, key)
				delete(f.ttls, key)
				c.SetVal(int64(1))
				return nil
			}
			c.SetVal(int64(0))
		default:
			err := fmt.Errorf("fake redis: unexpected command %s", cmd.Name())
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

func expiry(args []any) time.Duration {
	for i := 3; i+1 < len(args); i++ {
		switch strings.ToLower(fmt.Sprint(args[i])) {
		case "ex":
			return time.Duration(args[i+1].(int64)) * time.Second
		case "px":
			return time.Duration(args[i+1].(int64)) * time.Millisecond
		}
	}
	return 0
}
