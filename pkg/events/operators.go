package events

// Never returns a stream that never emits.
func Never[T any]() Stream[T] {
	return StreamFunc[T](func(Handler[T]) Subscription {
		return noopSubscription{}
	})
}

// Merge interleaves the given streams in arrival order. Nil streams contribute
// nothing.
func Merge[T any](streams ...Stream[T]) Stream[T] {
	return StreamFunc[T](func(handler Handler[T]) Subscription {
		bag := NewBag()
		for _, stream := range streams {
			if stream == nil {
				continue
			}
			bag.Add(stream.Subscribe(handler))
		}
		return bag
	})
}

// StartWith emits value synchronously to each new subscriber before
// forwarding the source.
func StartWith[T any](source Stream[T], value T) Stream[T] {
	return StreamFunc[T](func(handler Handler[T]) Subscription {
		if handler == nil {
			return noopSubscription{}
		}
		handler(value)
		if source == nil {
			return noopSubscription{}
		}
		return source.Subscribe(handler)
	})
}

// Map transforms every value of source with fn.
func Map[In, Out any](source Stream[In], fn func(In) Out) Stream[Out] {
	return StreamFunc[Out](func(handler Handler[Out]) Subscription {
		if source == nil || handler == nil || fn == nil {
			return noopSubscription{}
		}
		return source.Subscribe(func(value In) {
			handler(fn(value))
		})
	})
}

// Filter forwards values for which keep returns true.
func Filter[T any](source Stream[T], keep func(T) bool) Stream[T] {
	return StreamFunc[T](func(handler Handler[T]) Subscription {
		if source == nil || handler == nil {
			return noopSubscription{}
		}
		return source.Subscribe(func(value T) {
			if keep == nil || keep(value) {
				handler(value)
			}
		})
	})
}
