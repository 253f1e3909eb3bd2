// Package domain contains the farm registry's core entities (producers, farms
// and crops) together with the rules that keep a farm aggregate consistent:
// the area composition check and the crop association set algebra. It has no
// knowledge of storage or transport.
package domain
