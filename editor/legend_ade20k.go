package editor

// ADE20KLegend 是分割服务着色所用的 ADE20K 150 类图例，格式与外部图例资源一致。
const ADE20KLegend = `Idx,Color,Name
0,#787878,wall
1,#B47878,building;edifice
2,#06E6E6,sky
3,#503232,floor;flooring
4,#04C803,tree
5,#787850,ceiling
6,#8C8C8C,road;route
7,#CC05FF,bed
8,#E6E6E6,windowpane;window
9,#04FA07,grass
10,#E005FF,cabinet
11,#EBFF07,sidewalk;pavement
12,#96053D,person;individual
13,#787846,earth;ground
14,#08FF33,door;double door
15,#FF0652,table
16,#8FFF8C,mountain;mount
17,#CCFF04,plant;flora
18,#FF3307,curtain;drape
19,#CC4603,chair
20,#0066C8,car;auto
21,#3DE6FA,water
22,#FF0633,painting;picture
23,#0B66FF,sofa;couch
24,#FF0747,shelf
25,#FF09E0,house
26,#0907E6,sea
27,#DCDCDC,mirror
28,#FF095C,rug;carpet
29,#7009FF,field
30,#08FFD6,armchair
31,#07FFE0,seat
32,#FFB806,fence;fencing
33,#0AFF47,desk
34,#FF290A,rock;stone
35,#07FFFF,wardrobe;closet
36,#E0FF08,lamp
37,#6608FF,bathtub;bathing tub
38,#FF3D06,railing;rail
39,#FFC207,cushion
40,#FF7A08,base;pedestal
41,#00FF14,box
42,#FF0829,column;pillar
43,#FF0599,signboard;sign
44,#0633FF,chest of drawers;chest
45,#EB0CFF,counter
46,#A09614,sand
47,#00A3FF,sink
48,#8C8C8C,skyscraper
49,#FA0A0F,fireplace;hearth
50,#14FF00,refrigerator;icebox
51,#1FFF00,grandstand;covered stand
52,#FF1F00,path
53,#FFE000,stairs;steps
54,#99FF00,runway
55,#0000FF,case;display case
56,#FF4700,pool table;billiard table
57,#00EBFF,pillow
58,#00ADFF,screen door;screen
59,#1F00FF,stairway;staircase
60,#0BC8C8,river
61,#FF5200,bridge;span
62,#00FFF5,bookcase
63,#003DFF,blind;screen
64,#00FF70,coffee table;cocktail table
65,#00FF85,toilet;can
66,#FF0000,flower
67,#FFA300,book
68,#FF6600,hill
69,#C2FF00,bench
70,#008FFF,countertop
71,#33FF00,stove;kitchen stove
72,#0052FF,palm;palm tree
73,#00FF29,kitchen island
74,#00FFAD,computer
75,#0A00FF,swivel chair
76,#ADFF00,boat
77,#00FF99,bar
78,#FF5C00,arcade machine
79,#FF00FF,hovel;hut
80,#FF00F5,bus;autobus
81,#FF0066,towel
82,#FFAD00,light;light source
83,#FF0014,truck;motortruck
84,#FFB8B8,tower
85,#001FFF,chandelier;pendant
86,#00FF3D,awning;sunshade
87,#0047FF,streetlight;street lamp
88,#FF00CC,booth;cubicle
89,#00FFC2,television receiver;television
90,#00FF52,airplane;aeroplane
91,#000AFF,dirt track
92,#0070FF,apparel;wearing apparel
93,#3300FF,pole
94,#00C2FF,land;ground
95,#007AFF,bannister;banister
96,#00FFA3,escalator;moving staircase
97,#FF9900,ottoman;pouf
98,#00FF0A,bottle
99,#FF7000,buffet;counter
100,#8FFF00,poster;posting
101,#5200FF,stage
102,#A3FF00,van
103,#FFEB00,ship
104,#08B8AA,fountain
105,#8500FF,conveyer belt;conveyor belt
106,#00FF5C,canopy
107,#B800FF,washer;automatic washer
108,#FF001F,plaything;toy
109,#00B8FF,swimming pool;swimming bath
110,#00D6FF,stool
111,#FF0070,barrel;cask
112,#5CFF00,basket;handbasket
113,#00E0FF,waterfall;falls
114,#70E0FF,tent;collapsible shelter
115,#46B8A0,bag
116,#A300FF,minibike;motorbike
117,#9900FF,cradle
118,#47FF00,oven
119,#FF00A3,ball
120,#FFCC00,food;solid food
121,#FF008F,step;stair
122,#00FFEB,tank;storage tank
123,#85FF00,trade name;brand name
124,#FF00EB,microwave;microwave oven
125,#F500FF,pot;flowerpot
126,#FF007A,animal;animate being
127,#FFF500,bicycle;bike
128,#0ABED4,lake
129,#D6FF00,dishwasher;dish washer
130,#00CCFF,screen;silver screen
131,#1400FF,blanket;cover
132,#FFFF00,sculpture
133,#0099FF,hood;exhaust hood
134,#0029FF,sconce
135,#00FFCC,vase
136,#2900FF,traffic light;traffic signal
137,#29FF00,tray
138,#AD00FF,ashcan;trash can
139,#00F5FF,fan
140,#4700FF,pier;wharf
141,#7A00FF,crt screen
142,#00FFB8,plate
143,#005CFF,monitor;monitoring device
144,#B8FF00,bulletin board;notice board
145,#0085FF,shower
146,#FFD600,radiator
147,#19C2C2,glass;drinking glass
148,#66FF00,clock
149,#5C00FF,flag
`
