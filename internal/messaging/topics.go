package messaging

// TopicOrderPlaced carries one event per checkout, keyed by order id
// so all events for an order stay in partition order.
const TopicOrderPlaced = "order.placed"
