// Package hapticbroker wires the subscriber and publisher to an MQTT
// broker over github.com/eclipse/paho.mqtt.golang, and normalizes paho's
// reason-code duck typing into a plain ConnectResult (spec section 9) so
// the rest of the module never imports paho directly.
package hapticbroker
