// Package network loads, transforms, and writes back PyPSA-style network
// component folders (CSV tables).
//
// The external framework exposed these transformations as in-process Python
// callbacks invoked during model construction. Here they run as a separate
// step over the serialized network between workflow stages, which keeps the
// contract — mutate the model in place, restricted by carrier allow-lists —
// while making the transformations testable without a live solver stack.
//
// Two transformations exist: FilterCarriers removes generator/storage/link
// components whose carrier is outside the scenario's allow-lists, and
// AddGreenAmmonia injects an electrolyser, NH3 store, and ammonia-CCGT
// chain at the bus closest to a configured site.
package network
