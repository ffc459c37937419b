/*
Package flow reconstructs the control flow of a method body.

Partition splits the instruction stream into label-delimited blocks and
records the edges between them. Scopes resolves which try-catch regions are
active at each label. Walk collects every instruction reachable from a
starting point, entering exception handlers on the way.

# Key Types

  - Graph: the partition of one method, blocks keyed by label
  - Block: the instructions owned by a label and its outgoing edges
  - Edge: one control transfer, tagged with its Cause
  - ScopeMap: the active try-catch regions at each label
  - Region: the reachable instructions found by a walk
  - Analyzer: caches graphs and scope maps per method

Instructions are referenced by their index in the method's instruction
stream. Results never alias the method, which is immutable.
*/
package flow
