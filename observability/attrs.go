package observability

import "go.opentelemetry.io/otel/attribute"

// Domain-specific span/event attribute helpers, mirroring the teacher's
// Track/Group/Broadcast/Subscribers helpers but keyed to EON concepts.

// RequestID tags a span with the routed request's identifier.
func RequestID(id string) attribute.KeyValue { return attribute.String("eon.request_id", id) }

// ISP tags a span with the owning ISP's identifier.
func ISP(id string) attribute.KeyValue { return attribute.String("eon.isp", id) }

// PathLength tags a span with the chosen path's hop count.
func PathLength(hops int) attribute.KeyValue { return attribute.Int("eon.path_length", hops) }

// SlotDemand tags a span with a request's spectrum slot width.
func SlotDemand(slots int) attribute.KeyValue { return attribute.Int("eon.slot_demand", slots) }

// Reason tags a span with a blocking reason code.
func Reason(code string) attribute.KeyValue { return attribute.String("eon.reason", code) }

// Str is a generic string attribute helper for call sites with no
// dedicated typed helper.
func Str(key, value string) attribute.KeyValue { return attribute.String(key, value) }

// Num is a generic integer attribute helper for call sites with no
// dedicated typed helper.
func Num(key string, value int64) attribute.KeyValue { return attribute.Int64(key, value) }
