package thing

import "github.com/thingorm/thing/builder"

// CallOption option of find, save, remove and related
type CallOption func(*callOptions)

type callOptions struct {
	selects        []string
	limit          *int
	offset         int
	related        []string
	relatedSet     bool
	skipBeforeFind bool
	conn           builder.Conn

	attributes   []string
	onlyModified bool
	cascade      []string
	cascadeSet   bool
	noRefetch    bool
}

func newCallOptions(opts []CallOption) *callOptions {
	o := &callOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Select columns instead of every column attribute
func Select(columns ...string) CallOption {
	return func(o *callOptions) {
		o.selects = append(o.selects, columns...)
	}
}

// Limit at most n instances, a negative n removes the limit
func Limit(n int) CallOption {
	return func(o *callOptions) {
		o.limit = &n
	}
}

// Offset skip n rows
func Offset(n int) CallOption {
	return func(o *callOptions) {
		o.offset = n
	}
}

// WithRelated load these relations instead of the eager ones
func WithRelated(names ...string) CallOption {
	return func(o *callOptions) {
		o.related = append(o.related, names...)
		o.relatedSet = true
	}
}

// WithoutRelated load no relation
func WithoutRelated() CallOption {
	return func(o *callOptions) {
		o.related = nil
		o.relatedSet = true
	}
}

// SkipBeforeFind don't run before:find hooks
func SkipBeforeFind() CallOption {
	return func(o *callOptions) {
		o.skipBeforeFind = true
	}
}

// Using run on conn, usually a transaction owned by the caller
func Using(conn builder.Conn) CallOption {
	return func(o *callOptions) {
		o.conn = conn
	}
}

// Attributes save only these attributes
func Attributes(names ...string) CallOption {
	return func(o *callOptions) {
		o.attributes = append(o.attributes, names...)
	}
}

// OnlyModified save only attributes modified since construction or the last save
func OnlyModified() CallOption {
	return func(o *callOptions) {
		o.onlyModified = true
	}
}

// Cascade save these relations instead of the loaded hasOne ones
func Cascade(names ...string) CallOption {
	return func(o *callOptions) {
		o.cascade = append(o.cascade, names...)
		o.cascadeSet = true
	}
}

// NoRefetch return the saved instance instead of fetching it again
func NoRefetch() CallOption {
	return func(o *callOptions) {
		o.noRefetch = true
	}
}
