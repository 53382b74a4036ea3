package practice

// Resource kinds. A kind prefixes the IDs of its records.
const (
	KindClient       = "client"
	KindProject      = "project"
	KindTask         = "task"
	KindTransaction  = "transaction"
	KindInvoice      = "invoice"
	KindNotification = "notification"
)

func put[V any](v Values, column string, p *V) {
	if p != nil {
		v[column] = *p
	}
}

func putSlice[V any](v Values, column string, s []V) {
	if s != nil {
		v[column] = s
	}
}

func blank(p *string) bool {
	return p == nil || *p == ""
}
