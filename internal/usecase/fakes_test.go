package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiten398/single-checkout-flow/internal/entity"
)

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]entity.Order
	createErr error
	getErr    error
	gets      int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]entity.Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, o entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.orders[o.OrderID]; exists {
		return ErrDuplicateOrderID
	}
	f.orders[o.OrderID] = o
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return entity.Order{}, f.getErr
	}
	o, ok := f.orders[id]
	if !ok {
		return entity.Order{}, ErrNotFound
	}
	return o, nil
}

type fakeCache struct {
	orders map[string]entity.Order
	getErr error
	sets   int
}

func newFakeCache() *fakeCache { return &fakeCache{orders: make(map[string]entity.Order)} }

func (c *fakeCache) Get(_ context.Context, id string) (entity.Order, bool, error) {
	if c.getErr != nil {
		return entity.Order{}, false, c.getErr
	}
	o, ok := c.orders[id]
	return o, ok, nil
}

func (c *fakeCache) Set(_ context.Context, o entity.Order) error {
	c.sets++
	c.orders[o.OrderID] = o
	return nil
}

type fakeIdem struct {
	locks       map[string]bool
	values      map[string]string
	released    []string
	rememberErr error
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{locks: map[string]bool{}, values: map[string]string{}}
}

func (f *fakeIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + ":" + key
	if f.locks[k] {
		return false, nil
	}
	f.locks[k] = true
	return true, nil
}

func (f *fakeIdem) Release(_ context.Context, scope, key string) error {
	k := scope + ":" + key
	delete(f.locks, k)
	f.released = append(f.released, k)
	return nil
}

func (f *fakeIdem) Remember(_ context.Context, scope, key, value string) error {
	if f.rememberErr != nil {
		return f.rememberErr
	}
	f.values[scope+":"+key] = value
	return nil
}

func (f *fakeIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := f.values[scope+":"+key]
	return v, ok, nil
}

// columnRepo keeps orders the way the SQL schemas do: cents and milliseconds.
type columnRepo struct {
	*fakeOrderRepo
}

func (r columnRepo) Create(ctx context.Context, o entity.Order) error {
	o.Product.Price = decimal.NewFromFloat(o.Product.Price).Round(2).InexactFloat64()
	o.Total = decimal.NewFromFloat(o.Total).Round(2).InexactFloat64()
	o.CreatedAt = o.CreatedAt.Truncate(time.Millisecond).UTC()
	return r.fakeOrderRepo.Create(ctx, o)
}

// jsonCache round-trips orders through JSON like the Redis cache.
type jsonCache struct {
	raw map[string][]byte
}

func (c *jsonCache) Get(_ context.Context, id string) (entity.Order, bool, error) {
	b, ok := c.raw[id]
	if !ok {
		return entity.Order{}, false, nil
	}
	var o entity.Order
	err := json.Unmarshal(b, &o)
	return o, err == nil, err
}

func (c *jsonCache) Set(_ context.Context, o entity.Order) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	c.raw[o.OrderID] = b
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []entity.Order
	err    error
	panics bool
}

func (n *recordingNotifier) NotifyOrderPlaced(_ context.Context, o entity.Order) error {
	if n.panics {
		panic("smtp exploded")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, o)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.orders)
}

var errStoreDown = errors.New("store down")
