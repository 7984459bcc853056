package mqtt

import "testing"

func Test_inboundStore_messageGet_on_empty_queue_returns_ErrNoMessage(t *testing.T) {
	store := newInboundStore()
	_, _, err := store.messageGet(make([]byte, 10), make([]byte, 10))
	if err != ErrNoMessage {
		t.Errorf("expected ErrNoMessage, got %v", err)
	}
}

func Test_inboundStore_enqueue_then_messageGet_round_trips_topic_and_payload(t *testing.T) {
	store := newInboundStore()
	depth := store.enqueue([]byte("a/b"), []byte("hello"))
	checkEqual(t, 1, depth)

	topicBuf := make([]byte, 10)
	payloadBuf := make([]byte, 10)
	topicN, payloadN, err := store.messageGet(topicBuf, payloadBuf)
	checkNotError(t, err)
	checkEqual(t, "a/b", string(topicBuf[:topicN]))
	checkEqual(t, "hello", string(payloadBuf[:payloadN]))
}

func Test_inboundStore_is_FIFO(t *testing.T) {
	store := newInboundStore()
	store.enqueue([]byte("first"), []byte("1"))
	store.enqueue([]byte("second"), []byte("2"))

	topicBuf := make([]byte, 10)
	payloadBuf := make([]byte, 10)
	topicN, _, err := store.messageGet(topicBuf, payloadBuf)
	checkNotError(t, err)
	checkEqual(t, "first", string(topicBuf[:topicN]))

	topicN, _, err = store.messageGet(topicBuf, payloadBuf)
	checkNotError(t, err)
	checkEqual(t, "second", string(topicBuf[:topicN]))
}

func Test_inboundStore_messageGet_with_too_small_buffer_leaves_entry_queued(t *testing.T) {
	store := newInboundStore()
	store.enqueue([]byte("topic"), []byte("payload"))

	_, _, err := store.messageGet(make([]byte, 1), make([]byte, 10))
	if err != ErrInsufficientBuffer {
		t.Errorf("expected ErrInsufficientBuffer, got %v", err)
	}
	checkEqual(t, 1, store.depthNow())

	// a correctly sized pair of buffers should still see the entry
	topicBuf := make([]byte, 10)
	payloadBuf := make([]byte, 10)
	_, _, err = store.messageGet(topicBuf, payloadBuf)
	checkNotError(t, err)
}

func Test_inboundStore_purgeAll_drops_queued_messages(t *testing.T) {
	store := newInboundStore()
	store.enqueue([]byte("a"), []byte("1"))
	store.enqueue([]byte("b"), []byte("2"))
	store.purgeAll()
	checkEqual(t, 0, store.depthNow())
	_, _, err := store.messageGet(make([]byte, 10), make([]byte, 10))
	if err != ErrNoMessage {
		t.Errorf("expected ErrNoMessage after purge, got %v", err)
	}
}
