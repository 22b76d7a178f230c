/*
Package builder turns a loaded config.Model into a runnable graph.Graph.

Construction runs in three passes:

 1. Element creation: every element block is instantiated through the
    registry and its properties are applied in name order.

 2. Connection linking: every connect declaration is resolved to the created
    elements and attached to the graph, which checks port directions, type
    tags and the single-producer rule.

 3. Validation: the finished graph is validated, which computes its
    execution ordering and rejects cycles and unconnected required inputs.

Errors inside a pass are collected so that one run reports every broken
declaration. A later pass only runs when the earlier ones succeeded.
*/
package builder
