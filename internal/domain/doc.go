// Package domain models feedstock quantities, county reference data, and the
// simulation contract for the biomass conversion pathways.
//
// # Pathways
//
// Three conversion processes are served, each backed by a distinct external
// flowsheet but sharing one output contract (annual output, unit price, GWP
// intensity):
//
//	fermentation  cellulosic ethanol from corn stover     input "mass"
//	htl           hydrothermal liquefaction of sludge     input "sludge"
//	combustion    electricity from organic waste          input "mass"
//
// # Units
//
// Every quantity is normalized to kg/hr before it reaches the simulator.
// The accepted unit codes and their conversions are fixed:
//
//	kghr    kg/hr                    identity
//	tons    short tons per year      v * 907.185 / 8760
//	tonnes  metric tonnes per year   v * 1000 / 8760
//	mgd     million gallons per day  v * 1 t dry sludge/day per MGD * 1000 / 24
//	m3d     cubic meters per day     v / 3785.411784, then as mgd
//
// The volumetric codes describe wastewater flow and only apply to the sludge
// pathway. The MGD basis follows the common WRRF assumption of one metric ton
// of dry sludge per million gallons treated.
//
// # County Tables
//
// County data ships as CSV with a name column, a quantity column in the
// pathway's native unit, and a derived "Kilogram/hr" flow column. Lookups are
// case-insensitive exact matches. A missing column is a deployment defect and
// surfaces as [ErrSchema], never as [ErrNotFound].
//
// # Simulation State
//
// The simulator is modeled as process-wide mutable state: prices and
// characterization factors are set by [Simulator.Configure] and read by the
// following [Simulator.Simulate]. Callers must serialize the pair.
package domain
