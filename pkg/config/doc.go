/*
Package config loads and validates the cluster definition a simulation
run is driven from: one entry per node plus the four task samplers,
read from a JSON or YAML file chosen by its extension.

IECInt accepts IEC-suffixed integers ("512", "4K", "2Gi" or "2G" — the
trailing "i" is optional, matching the loose pattern common in infra
config files rather than a strict SI/IEC distinction) anywhere a core
count, IO unit count, or bandwidth figure is expected. Struct-tag
validation via go-playground/validator rejects missing or non-positive
fields, and an unrecognized sampler type, before a simulation starts.
*/
package config
