package domain

// FreeTierLimit is the maximum number of subscriptions a user can track
// without an active premium entitlement.
const FreeTierLimit = 3
